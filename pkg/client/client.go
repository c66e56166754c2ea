package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/calebmoore/pennywise/pkg/domain"
)

// Credentials is the payload for the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload for the registration endpoint.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthResponse is the shape both auth endpoints return on success.
type AuthResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Session converts the auth response into a persistable session.
func (r AuthResponse) Session() domain.Session {
	return domain.Session{
		Token: r.Token,
		User: domain.User{
			Email:     r.Email,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		},
	}
}

// ExpenseRequest is the payload for creating or replacing an expense.
type ExpenseRequest struct {
	Description string      `json:"description"`
	Amount      float64     `json:"amount"`
	Category    string      `json:"category"`
	ExpenseDate domain.Date `json:"expenseDate"`
}

// Client is the expense-tracker API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. token may be empty for unauthenticated use
// (login and registration).
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken replaces the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges credentials for a session token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/api/auth/login", Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates a new account and returns its session token and profile.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/api/auth/register", reg, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// ListExpenses fetches the caller's expenses. filter is one of the named
// relative ranges; "" or domain.FilterAll fetches everything and sends no
// filter parameter.
func (c *Client) ListExpenses(ctx context.Context, filter string) ([]domain.Expense, error) {
	path := "/api/expenses"
	if filter != "" && filter != domain.FilterAll {
		params := url.Values{}
		params.Set("filter", filter)
		path += "?" + params.Encode()
	}

	var expenses []domain.Expense
	if err := c.get(ctx, path, &expenses); err != nil {
		return nil, fmt.Errorf("client.ListExpenses: %w", err)
	}
	return expenses, nil
}

// ListExpensesByRange fetches expenses between start and end, inclusive.
func (c *Client) ListExpensesByRange(ctx context.Context, start, end domain.Date) ([]domain.Expense, error) {
	params := url.Values{}
	params.Set("startDate", start.String())
	params.Set("endDate", end.String())

	var expenses []domain.Expense
	if err := c.get(ctx, "/api/expenses?"+params.Encode(), &expenses); err != nil {
		return nil, fmt.Errorf("client.ListExpensesByRange: %w", err)
	}
	return expenses, nil
}

// GetExpense fetches a single expense by ID.
func (c *Client) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	var expense domain.Expense
	if err := c.get(ctx, "/api/expenses/"+strconv.FormatInt(id, 10), &expense); err != nil {
		return nil, fmt.Errorf("client.GetExpense: %w", err)
	}
	return &expense, nil
}

// CreateExpense creates a new expense.
func (c *Client) CreateExpense(ctx context.Context, req ExpenseRequest) (*domain.Expense, error) {
	var created domain.Expense
	if err := c.post(ctx, "/api/expenses", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateExpense: %w", err)
	}
	return &created, nil
}

// UpdateExpense replaces the expense with the given ID.
func (c *Client) UpdateExpense(ctx context.Context, id int64, req ExpenseRequest) (*domain.Expense, error) {
	var updated domain.Expense
	if err := c.doRequest(ctx, http.MethodPut, "/api/expenses/"+strconv.FormatInt(id, 10), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateExpense: %w", err)
	}
	return &updated, nil
}

// DeleteExpense deletes an expense by ID.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/expenses/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteExpense: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		// Error bodies carry a "message" field; some endpoints use "error".
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
