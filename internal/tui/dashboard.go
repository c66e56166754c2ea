package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebmoore/pennywise/pkg/client"
	"github.com/calebmoore/pennywise/pkg/domain"
)

// dashState is the state machine for dashboard interactions.
type dashState int

const (
	dsNormal   dashState = iota
	dsAdding             // add-expense form open
	dsEditing            // edit form open for the tracked expense
	dsDeleting           // delete confirmation on the selected row
	dsRange              // custom date-range form open
)

// filterCustom marks that the table shows an explicit start/end range rather
// than a named filter.
const filterCustom = "custom"

// -- messages --

// sessionExpiredMsg is emitted whenever an authenticated call comes back 401.
// The root model tears the session down; nothing else handles 401s.
type sessionExpiredMsg struct{}

// logoutRequestedMsg is a deliberate logout; same teardown as expiry.
type logoutRequestedMsg struct{}

type expensesLoadedMsg struct {
	expenses []domain.Expense
	filter   string
	err      error
}

type expenseFetchedMsg struct {
	expense *domain.Expense
	err     error
}

type expenseCreatedMsg struct{ err error }

type expenseUpdatedMsg struct{ err error }

type expenseDeletedMsg struct{ err error }

type rowCopiedMsg struct{ err error }

// -- model --

// Add/edit form fields.
const (
	fieldDescription = iota
	fieldAmount
	fieldCategory
	fieldDate
	numExpenseFields
)

var expenseFieldLabels = [numExpenseFields]string{"description", "amount", "category", "date"}

type dashModel struct {
	client   *client.Client
	user     domain.User
	expenses []domain.Expense
	filter   string // filter reflected by the table currently shown
	loading  bool
	cursor   int
	state    dashState
	alert    alertSlot

	// add/edit form; editID is the tracked in-edit record. Only one edit is
	// in flight at a time: opening another replaces it.
	fields [numExpenseFields]string
	focus  int
	editID int64

	// custom range form
	rangeFields [2]string // start, end
	rangeFocus  int

	width  int
	height int
}

func newDashModel(c *client.Client) dashModel {
	m := dashModel{
		client: c,
		filter: domain.FilterAll,
		alert:  alertSlot{name: "dashboard", ttl: dashboardAlertTTL},
	}
	m.resetForm()
	return m
}

// resetForm clears the add/edit form and sets the date back to today.
func (m *dashModel) resetForm() {
	m.fields = [numExpenseFields]string{}
	m.fields[fieldCategory] = domain.Categories[0]
	m.fields[fieldDate] = domain.Today().String()
	m.focus = fieldDescription
	m.editID = 0
}

func (m dashModel) Init() tea.Cmd {
	return m.load(domain.FilterAll)
}

// -- commands --

func (m dashModel) load(filter string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		expenses, err := c.ListExpenses(context.Background(), filter)
		return expensesLoadedMsg{expenses: expenses, filter: filter, err: err}
	}
}

func (m dashModel) loadRange(start, end domain.Date) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		expenses, err := c.ListExpensesByRange(context.Background(), start, end)
		return expensesLoadedMsg{expenses: expenses, filter: filterCustom, err: err}
	}
}

func (m dashModel) fetchForEdit(id int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		expense, err := c.GetExpense(context.Background(), id)
		return expenseFetchedMsg{expense: expense, err: err}
	}
}

// fail routes an operation error: 401 funnels into the shared session
// teardown, everything else becomes a non-fatal alert and existing state is
// left untouched.
func (m dashModel) fail(err error, fallback string) (dashModel, tea.Cmd) {
	if client.IsUnauthorized(err) {
		return m, func() tea.Msg { return sessionExpiredMsg{} }
	}
	return m, m.alert.show(client.ServerMessage(err, fallback), alertDanger)
}

// -- update --

func (m dashModel) Update(msg tea.Msg) (dashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case expensesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// Prior table content stays as-is.
			return m.fail(msg.err, "Failed to load expenses")
		}
		m.expenses = msg.expenses
		m.filter = msg.filter
		if m.cursor >= len(m.expenses) {
			m.cursor = 0
		}
		if m.state == dsRange {
			m.state = dsNormal
		}
		return m, nil

	case expenseFetchedMsg:
		if msg.err != nil {
			return m.fail(msg.err, "Failed to load expense details")
		}
		e := msg.expense
		m.state = dsEditing
		m.editID = e.ID
		m.fields[fieldDescription] = e.Description
		m.fields[fieldAmount] = strconv.FormatFloat(e.Amount, 'f', 2, 64)
		m.fields[fieldCategory] = e.Category
		m.fields[fieldDate] = e.ExpenseDate.String()
		m.focus = fieldDescription
		return m, nil

	case expenseCreatedMsg:
		if msg.err != nil {
			// Form keeps what the user typed for retry.
			return m.fail(msg.err, "Failed to add expense")
		}
		m.state = dsNormal
		m.resetForm()
		return m, tea.Batch(
			m.alert.show("Expense added successfully!", alertSuccess),
			m.load(domain.FilterAll),
		)

	case expenseUpdatedMsg:
		if msg.err != nil {
			// Edit form stays open.
			return m.fail(msg.err, "Failed to update expense")
		}
		m.state = dsNormal
		m.resetForm()
		return m, tea.Batch(
			m.alert.show("Expense updated successfully!", alertSuccess),
			m.load(domain.FilterAll),
		)

	case expenseDeletedMsg:
		if msg.err != nil {
			m.state = dsNormal
			return m.fail(msg.err, "Failed to delete expense")
		}
		m.state = dsNormal
		return m, tea.Batch(
			m.alert.show("Expense deleted successfully!", alertSuccess),
			m.load(domain.FilterAll),
		)

	case rowCopiedMsg:
		if msg.err != nil {
			return m, m.alert.show("Copy failed", alertDanger)
		}
		return m, m.alert.show("Copied to clipboard", alertSuccess)

	case alertExpiredMsg:
		m.alert.expire(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m dashModel) handleKey(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch m.state {
	case dsAdding, dsEditing:
		return m.handleKeyForm(msg)
	case dsDeleting:
		return m.handleKeyDeleting(msg)
	case dsRange:
		return m.handleKeyRange(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.expenses)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "1":
		m.loading = true
		return m, m.load(domain.FilterAll)
	case "2":
		m.loading = true
		return m, m.load(domain.FilterWeek)
	case "3":
		m.loading = true
		return m, m.load(domain.FilterMonth)
	case "4":
		m.loading = true
		return m, m.load(domain.Filter3Months)
	case "f":
		m.state = dsRange
		m.rangeFocus = 0

	case "a":
		// Form content carries over from a failed create so the user can
		// retry; it was reset after the last success.
		m.state = dsAdding
		m.editID = 0
	case "e":
		if len(m.expenses) > 0 && m.cursor < len(m.expenses) {
			return m, m.fetchForEdit(m.expenses[m.cursor].ID)
		}
	case "d":
		if len(m.expenses) > 0 && m.cursor < len(m.expenses) {
			m.state = dsDeleting
		}

	case "c":
		if len(m.expenses) > 0 && m.cursor < len(m.expenses) {
			e := m.expenses[m.cursor]
			line := fmt.Sprintf("%s  %s  %s", formatDate(e.ExpenseDate), sanitizeText(e.Description), formatAmount(e.Amount))
			return m, func() tea.Msg {
				return rowCopiedMsg{err: clipboard.WriteAll(line)}
			}
		}

	case "r":
		m.loading = true
		return m, m.reload()

	case "L":
		return m, func() tea.Msg { return logoutRequestedMsg{} }
	}
	return m, nil
}

// reload re-issues the load for whatever the table currently shows.
func (m dashModel) reload() tea.Cmd {
	if m.filter == filterCustom {
		start, serr := domain.ParseDate(strings.TrimSpace(m.rangeFields[0]))
		end, eerr := domain.ParseDate(strings.TrimSpace(m.rangeFields[1]))
		if serr == nil && eerr == nil {
			return m.loadRange(start, end)
		}
	}
	return m.load(m.filter)
}

func (m dashModel) handleKeyForm(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numExpenseFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numExpenseFields) % numExpenseFields
	case "enter":
		if m.focus == numExpenseFields-1 {
			return m.submitForm()
		}
		m.focus++
	case "ctrl+s":
		return m.submitForm()
	case "esc":
		m.state = dsNormal
	default:
		if m.focus == fieldCategory {
			// h/l cycle through the category list.
			key := msg.String()
			if key == "h" || key == "l" {
				m.fields[fieldCategory] = cycleCategory(m.fields[fieldCategory], key == "l")
			}
			return m, nil
		}
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

// cycleCategory steps to the previous or next canonical category.
func cycleCategory(current string, forward bool) string {
	idx := 0
	for i, c := range domain.Categories {
		if c == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(domain.Categories)
	} else {
		idx = (idx - 1 + len(domain.Categories)) % len(domain.Categories)
	}
	return domain.Categories[idx]
}

func (m dashModel) submitForm() (dashModel, tea.Cmd) {
	description := strings.TrimSpace(m.fields[fieldDescription])
	if description == "" {
		return m, m.alert.show("Description is required", alertWarning)
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(m.fields[fieldAmount]), 64)
	if err != nil {
		return m, m.alert.show("Enter a valid amount", alertWarning)
	}
	category := m.fields[fieldCategory]
	if !domain.ValidCategory(category) {
		return m, m.alert.show("Select a valid category", alertWarning)
	}
	date, err := domain.ParseDate(strings.TrimSpace(m.fields[fieldDate]))
	if err != nil {
		return m, m.alert.show("Enter the date as YYYY-MM-DD", alertWarning)
	}

	req := client.ExpenseRequest{
		Description: description,
		Amount:      amount,
		Category:    category,
		ExpenseDate: date,
	}
	c := m.client

	if m.state == dsEditing {
		id := m.editID
		return m, func() tea.Msg {
			_, err := c.UpdateExpense(context.Background(), id, req)
			return expenseUpdatedMsg{err: err}
		}
	}
	return m, func() tea.Msg {
		_, err := c.CreateExpense(context.Background(), req)
		return expenseCreatedMsg{err: err}
	}
}

func (m dashModel) handleKeyDeleting(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if len(m.expenses) > 0 && m.cursor < len(m.expenses) {
			id := m.expenses[m.cursor].ID
			c := m.client
			return m, func() tea.Msg {
				err := c.DeleteExpense(context.Background(), id)
				return expenseDeletedMsg{err: err}
			}
		}
		m.state = dsNormal
	case "n", "N", "esc":
		// No confirmation, no request.
		m.state = dsNormal
	}
	return m, nil
}

func (m dashModel) handleKeyRange(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "shift+tab", "up":
		m.rangeFocus = 1 - m.rangeFocus
	case "esc":
		m.state = dsNormal
	case "enter":
		return m.submitRange()
	default:
		m.rangeFields[m.rangeFocus] = editRune(m.rangeFields[m.rangeFocus], msg.String())
	}
	return m, nil
}

func (m dashModel) submitRange() (dashModel, tea.Cmd) {
	startRaw := strings.TrimSpace(m.rangeFields[0])
	endRaw := strings.TrimSpace(m.rangeFields[1])
	if startRaw == "" || endRaw == "" {
		// Validated locally; no request goes out.
		return m, m.alert.show("Please select both start and end dates", alertWarning)
	}
	start, err := domain.ParseDate(startRaw)
	if err != nil {
		return m, m.alert.show("Enter the start date as YYYY-MM-DD", alertWarning)
	}
	end, err := domain.ParseDate(endRaw)
	if err != nil {
		return m, m.alert.show("Enter the end date as YYYY-MM-DD", alertWarning)
	}
	if start.After(end.Time) {
		return m, m.alert.show("Start date must be before or equal to end date", alertWarning)
	}
	m.loading = true
	return m, m.loadRange(start, end)
}

// -- view --

func (m dashModel) helpKeys() string {
	switch m.state {
	case dsAdding, dsEditing:
		return helpEntry("tab", "next") + "  " + helpEntry("h/l", "category") + "  " +
			helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
	case dsDeleting:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	case dsRange:
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "apply") + "  " + helpEntry("esc", "cancel")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("1-4", "filter") + "  " + helpEntry("f", "range") + "  " +
			helpEntry("a", "add") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " +
			helpEntry("c", "copy") + "  " + helpEntry("L", "logout") + "  " + helpEntry("q", "quit")
	}
}

func (m dashModel) View() string {
	var sb strings.Builder

	sb.WriteString(" " + m.viewFilterRow() + "\n")

	if m.alert.visible() {
		sb.WriteString(" " + m.alert.view() + "\n")
	} else {
		sb.WriteString("\n")
	}

	switch m.state {
	case dsAdding:
		sb.WriteString(m.viewExpenseForm("── ADD EXPENSE ──"))
		return sb.String()
	case dsEditing:
		sb.WriteString(m.viewExpenseForm(fmt.Sprintf("── EDIT EXPENSE #%d ──", m.editID)))
		return sb.String()
	case dsRange:
		sb.WriteString(m.viewRangeForm())
		return sb.String()
	}

	sb.WriteString(m.viewTable())
	return sb.String()
}

func (m dashModel) viewFilterRow() string {
	var parts []string
	keys := [...]string{"1", "2", "3", "4"}
	for i, f := range domain.Filters {
		if f == m.filter {
			parts = append(parts, accentStyle.Render(keys[i])+" "+selectedStyle.Underline(true).Render(f))
		} else {
			parts = append(parts, metaStyle.Render(keys[i])+" "+dimStyle.Render(f))
		}
	}
	custom := metaStyle.Render("f") + " " + dimStyle.Render("custom")
	if m.filter == filterCustom {
		custom = accentStyle.Render("f") + " " + selectedStyle.Underline(true).Render("custom")
	}
	parts = append(parts, custom)
	return strings.Join(parts, "  ")
}

func (m dashModel) viewTable() string {
	var sb strings.Builder

	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── EXPENSES %d ──", len(m.expenses))) + "\n")

	if m.loading && len(m.expenses) == 0 {
		sb.WriteString("   " + dimStyle.Render("loading...") + "\n")
	}

	// The total is recomputed from the displayed set on every render.
	var total float64
	if len(m.expenses) == 0 {
		if !m.loading {
			sb.WriteString("   " + dimStyle.Render("no expenses found") + "\n")
		}
	} else {
		for i, e := range m.expenses {
			total += e.Amount
			sb.WriteString(m.viewRow(i, e))
			if i == m.cursor && m.state == dsDeleting {
				sb.WriteString("   " + dangerStyle.Render("delete this expense? ") +
					accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
			}
		}
	}

	sb.WriteString("\n " + totalStyle.Render("Total: "+formatAmount(total)) + "\n")
	return sb.String()
}

func (m dashModel) viewRow(i int, e domain.Expense) string {
	isActive := i == m.cursor && m.state != dsAdding

	cursor := "  "
	if isActive {
		cursor = accentStyle.Render("▸") + " "
	}

	date := metaStyle.Render(fmt.Sprintf("%-13s", formatDate(e.ExpenseDate)))

	desc := truncStr(sanitizeText(e.Description), 32)
	descStr := normalStyle.Render(fmt.Sprintf("%-33s", desc))
	if isActive {
		descStr = selectedStyle.Render(fmt.Sprintf("%-33s", desc))
	}

	badge := CategoryStyle(e.Category).Render("[" + domain.CategoryLabel(e.Category) + "]")
	pad := 16 - len([]rune(domain.CategoryLabel(e.Category))) - 2
	if pad < 1 {
		pad = 1
	}

	amount := amountStyle.Render(fmt.Sprintf("%10s", formatAmount(e.Amount)))

	return " " + cursor + date + descStr + badge + strings.Repeat(" ", pad) + amount + "\n"
}

func (m dashModel) viewExpenseForm(heading string) string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render(heading) + "\n\n")

	for i := 0; i < numExpenseFields; i++ {
		label := expenseFieldLabels[i]
		value := m.fields[i]
		cursor := "  "
		labelStyle := metaStyle
		if i == m.focus {
			cursor = inputPromptStyle.Render(">") + " "
			labelStyle = selectedStyle
		}
		if i == fieldCategory {
			badge := CategoryStyle(value).Render(value)
			sb.WriteString(" " + cursor + labelStyle.Render(label+":") + " " + badge + "  " + inputPlaceholderStyle.Render("(h/l to cycle)") + "\n")
			continue
		}
		if i == m.focus {
			value += accentStyle.Render("█")
		}
		sb.WriteString(" " + cursor + labelStyle.Render(label+":") + " " + value + "\n")
	}

	sb.WriteString("\n   " + dimStyle.Render("ctrl+s save · esc cancel") + "\n")
	return sb.String()
}

func (m dashModel) viewRangeForm() string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("── CUSTOM RANGE ──") + "\n\n")

	labels := [2]string{"start date", "end date"}
	for i := 0; i < 2; i++ {
		value := m.rangeFields[i]
		cursor := "  "
		labelStyle := metaStyle
		if i == m.rangeFocus {
			cursor = inputPromptStyle.Render(">") + " "
			labelStyle = selectedStyle
			value += accentStyle.Render("█")
		}
		if m.rangeFields[i] == "" && i != m.rangeFocus {
			value = inputPlaceholderStyle.Render("YYYY-MM-DD")
		}
		sb.WriteString(" " + cursor + labelStyle.Render(labels[i]+":") + " " + value + "\n")
	}

	sb.WriteString("\n   " + dimStyle.Render("enter apply · esc cancel") + "\n")
	return sb.String()
}
