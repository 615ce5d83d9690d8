package catalog

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// containsFold reports whether any field contains q, ignoring case.
// An empty query matches everything.
func containsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// FilterOrders matches q against the order number and customer name.
func FilterOrders(orders []Order, q string) []Order {
	return filter(orders, func(o Order) bool {
		return containsFold(q, o.OrderNumber, o.Customer.Name)
	})
}

// FilterEmployees matches q against name, department and position.
func FilterEmployees(employees []Employee, q string) []Employee {
	return filter(employees, func(e Employee) bool {
		return containsFold(q, e.Name, e.Department, e.Position)
	})
}

// FilterCustomers matches q against name, email and company.
func FilterCustomers(customers []Customer, q string) []Customer {
	return filter(customers, func(c Customer) bool {
		return containsFold(q, c.Name, c.Email, c.Company)
	})
}

// ProductQuery narrows a product listing. Zero fields are ignored.
type ProductQuery struct {
	Text     string
	SKU      string // glob, e.g. "FURN-*"
	Category string
}

// FilterProducts applies q. The SKU glob is matched case-insensitively.
func FilterProducts(products []Product, q ProductQuery) ([]Product, error) {
	pattern := strings.ToUpper(q.SKU)
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("sku pattern %q: %w", q.SKU, doublestar.ErrBadPattern)
	}

	return filter(products, func(p Product) bool {
		if !containsFold(q.Text, p.Name, p.Category, p.SKU) {
			return false
		}
		if q.Category != "" && !strings.EqualFold(q.Category, p.Category) {
			return false
		}
		if pattern != "" {
			ok, _ := doublestar.Match(pattern, strings.ToUpper(p.SKU))
			return ok
		}
		return true
	}), nil
}

// TaskQuery narrows a task listing. Zero fields are ignored.
type TaskQuery struct {
	Text     string
	Status   TaskStatus
	Priority TaskPriority
}

// FilterTasks matches Text against title, description and assignee name.
func FilterTasks(tasks []Task, q TaskQuery) []Task {
	return filter(tasks, func(t Task) bool {
		assignee := ""
		if t.Assignee != nil {
			assignee = t.Assignee.Name
		}
		if !containsFold(q.Text, t.Title, t.Description, assignee) {
			return false
		}
		if q.Status != "" && q.Status != t.Status {
			return false
		}
		if q.Priority != "" && q.Priority != t.Priority {
			return false
		}
		return true
	})
}
