package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calebmoore/pennywise/pkg/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds.Email != "a@x.com" || creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(AuthResponse{ //nolint:errcheck
			Token:     "t1",
			Email:     "a@x.com",
			FirstName: "A",
			LastName:  "X",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	resp, err := c.Login(context.Background(), "a@x.com", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.Token != "t1" {
		t.Errorf("Token = %q, want %q", resp.Token, "t1")
	}
	sess := resp.Session()
	if sess.User.FirstName != "A" || sess.User.LastName != "X" {
		t.Errorf("Session().User = %+v, want A X", sess.User)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Login(context.Background(), "a@x.com", "wrong")
	if err == nil {
		t.Fatal("expected error for rejected credentials")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = false, want true", err)
	}
	if got := ServerMessage(err, "fallback"); got != "Bad credentials" {
		t.Errorf("ServerMessage = %q, want %q", got, "Bad credentials")
	}
}

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			http.NotFound(w, r)
			return
		}
		var reg Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AuthResponse{ //nolint:errcheck
			Token:     "t2",
			Email:     reg.Email,
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	resp, err := c.Register(context.Background(), Registration{
		FirstName: "B", LastName: "Y", Email: "b@y.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if resp.Email != "b@y.com" {
		t.Errorf("Email = %q, want %q", resp.Email, "b@y.com")
	}
}

func TestListExpenses_AllOmitsFilterParam(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]domain.Expense{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if _, err := c.ListExpenses(context.Background(), domain.FilterAll); err != nil {
		t.Fatalf("ListExpenses(all) error: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("filter=all sent query %q, want none", gotQuery)
	}

	if _, err := c.ListExpenses(context.Background(), domain.FilterWeek); err != nil {
		t.Fatalf("ListExpenses(week) error: %v", err)
	}
	if gotQuery != "filter=week" {
		t.Errorf("filter=week sent query %q, want filter=week", gotQuery)
	}
}

func TestListExpenses_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer my-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}
		json.NewEncoder(w).Encode([]domain.Expense{ //nolint:errcheck
			{ID: 1, Description: "Coffee", Amount: 3.5, Category: "FOOD"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "my-token")
	expenses, err := c.ListExpenses(context.Background(), "")
	if err != nil {
		t.Fatalf("ListExpenses() error: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Description != "Coffee" {
		t.Errorf("got %+v, want one Coffee expense", expenses)
	}
}

func TestListExpensesByRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("startDate") != "2025-01-01" || q.Get("endDate") != "2025-01-31" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]domain.Expense{{ID: 7}}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	start := domain.NewDate(2025, time.January, 1)
	end := domain.NewDate(2025, time.January, 31)
	expenses, err := c.ListExpensesByRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("ListExpensesByRange() error: %v", err)
	}
	if len(expenses) != 1 || expenses[0].ID != 7 {
		t.Errorf("got %+v, want expense 7", expenses)
	}
}

func TestCreateExpense(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req ExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Expense{ //nolint:errcheck
			ID:          12,
			Description: req.Description,
			Amount:      req.Amount,
			Category:    req.Category,
			ExpenseDate: req.ExpenseDate,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	created, err := c.CreateExpense(context.Background(), ExpenseRequest{
		Description: "Lunch",
		Amount:      12.5,
		Category:    "FOOD",
		ExpenseDate: domain.NewDate(2025, time.February, 2),
	})
	if err != nil {
		t.Fatalf("CreateExpense() error: %v", err)
	}
	if created.ID != 12 || created.Description != "Lunch" {
		t.Errorf("created = %+v, want ID 12 Lunch", created)
	}
}

func TestUpdateExpense_UsesPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/expenses/9" {
			t.Errorf("got %s %s, want PUT /api/expenses/9", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.Expense{ID: 9, Description: "Updated"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	updated, err := c.UpdateExpense(context.Background(), 9, ExpenseRequest{Description: "Updated"})
	if err != nil {
		t.Fatalf("UpdateExpense() error: %v", err)
	}
	if updated.ID != 9 {
		t.Errorf("ID = %d, want 9", updated.ID)
	}
}

func TestDeleteExpense(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/expenses/3" {
			t.Errorf("got %s %s, want DELETE /api/expenses/3", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if err := c.DeleteExpense(context.Background(), 3); err != nil {
		t.Fatalf("DeleteExpense() error: %v", err)
	}
}

func TestHTTPError_MessageFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.GetExpense(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 500") || !strings.Contains(got, "boom") {
		t.Errorf("error = %q, want HTTP 500 with body", got)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)                 // slow server
		json.NewEncoder(w).Encode(domain.Expense{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.GetExpense(ctx, 1)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if IsUnauthorized(err) {
		t.Error("transport failure must not classify as unauthorized")
	}
}
