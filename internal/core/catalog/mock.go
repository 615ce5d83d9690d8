package catalog

import (
	"fmt"
	"slices"
	"time"
)

// MockProvider serves a fixed dataset from memory. Accessors return copies
// so callers cannot mutate the shared data.
type MockProvider struct {
	products  []Product
	customers []Customer
	orders    []Order
	employees []Employee
	tasks     []Task
	stats     DashboardStats
}

var _ Provider = (*MockProvider)(nil)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(fmt.Sprintf("catalog: bad date %q", s))
	}
	return t
}

// NewMockProvider builds the demo dataset.
func NewMockProvider() *MockProvider {
	products := []Product{
		{ID: "1", Name: "Laptop Computer", SKU: "TECH-001", Category: "Electronics", Price: 129999, Cost: 89999, Stock: 15, ReorderLevel: 5, Description: "High performance laptop with latest specifications"},
		{ID: "2", Name: "Office Desk", SKU: "FURN-002", Category: "Furniture", Price: 34999, Cost: 19999, Stock: 8, ReorderLevel: 3, Description: "Ergonomic office desk with adjustable height"},
		{ID: "3", Name: "Wireless Headphones", SKU: "TECH-003", Category: "Electronics", Price: 19999, Cost: 8999, Stock: 25, ReorderLevel: 10, Description: "Noise cancelling wireless headphones"},
		{ID: "4", Name: "Ergonomic Chair", SKU: "FURN-004", Category: "Furniture", Price: 24999, Cost: 12999, Stock: 12, ReorderLevel: 5, Description: "Comfortable ergonomic office chair"},
		{ID: "5", Name: "Smart Monitor", SKU: "TECH-005", Category: "Electronics", Price: 39999, Cost: 24999, Stock: 18, ReorderLevel: 7, Description: "4K Ultra HD Smart Monitor with HDR"},
		{ID: "6", Name: "Standing Desk Converter", SKU: "FURN-006", Category: "Furniture", Price: 17999, Cost: 9999, Stock: 3, ReorderLevel: 5, Description: "Convert any desk to a standing desk"},
		{ID: "7", Name: "Wireless Mouse", SKU: "TECH-007", Category: "Electronics", Price: 4999, Cost: 2299, Stock: 40, ReorderLevel: 15, Description: "Ergonomic wireless mouse with long battery life"},
		{ID: "8", Name: "Filing Cabinet", SKU: "FURN-008", Category: "Furniture", Price: 12999, Cost: 7999, Stock: 6, ReorderLevel: 3, Description: "Metal filing cabinet with lock"},
	}

	customers := []Customer{
		{ID: "1", Name: "John Smith", Email: "john.smith@example.com", Phone: "555-123-4567", Company: "Tech Solutions Inc.", Address: "123 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "USA"},
		{ID: "2", Name: "Sarah Johnson", Email: "sarah.j@example.com", Phone: "555-987-6543", Company: "Creative Designs LLC", Address: "456 Oak Ave", City: "Portland", State: "OR", PostalCode: "97201", Country: "USA"},
		{ID: "3", Name: "Michael Brown", Email: "michael.b@example.com", Phone: "555-456-7890", Company: "Brown Consulting", Address: "789 Pine St", City: "Seattle", State: "WA", PostalCode: "98101", Country: "USA"},
	}

	item := func(id string, p Product, qty int) OrderItem {
		return OrderItem{ID: id, Product: p, Quantity: qty, UnitPrice: p.Price}
	}

	orders := []Order{
		{
			ID: "1", OrderNumber: "ORD-2023-001", Customer: customers[0], Date: day("2023-05-15"),
			Status: OrderDelivered, Total: 149998,
			Items: []OrderItem{item("1", products[0], 1), item("2", products[6], 4)},
		},
		{
			ID: "2", OrderNumber: "ORD-2023-002", Customer: customers[1], Date: day("2023-05-18"),
			Status: OrderShipped, Total: 57998,
			Items: []OrderItem{item("1", products[3], 1), item("2", products[5], 1), item("3", products[6], 3)},
		},
		{
			ID: "3", OrderNumber: "ORD-2023-003", Customer: customers[2], Date: day("2023-05-20"),
			Status: OrderProcessing, Total: 72998,
			Items: []OrderItem{item("1", products[2], 2), item("2", products[7], 2), item("3", products[6], 1)},
		},
		{
			ID: "4", OrderNumber: "ORD-2023-004", Customer: customers[0], Date: day("2023-05-22"),
			Status: OrderPending, Total: 39999,
			Items: []OrderItem{item("1", products[4], 1)},
		},
	}

	employees := []Employee{
		{ID: "1", Name: "David Chen", Email: "david.chen@company.com", Department: "Engineering", Position: "Senior Developer", HireDate: day("2020-03-15"), Phone: "555-111-2222", Address: "123 Tech Lane, San Francisco, CA", Status: EmployeeActive},
		{ID: "2", Name: "Lisa Wong", Email: "lisa.wong@company.com", Department: "Marketing", Position: "Marketing Manager", HireDate: day("2019-06-10"), Phone: "555-222-3333", Address: "456 Market St, San Francisco, CA", Status: EmployeeActive},
		{ID: "3", Name: "James Taylor", Email: "james.taylor@company.com", Department: "Sales", Position: "Sales Representative", HireDate: day("2021-01-05"), Phone: "555-333-4444", Address: "789 Commerce Blvd, New York, NY", Status: EmployeeActive},
		{ID: "4", Name: "Maria Rodriguez", Email: "maria.r@company.com", Department: "Human Resources", Position: "HR Specialist", HireDate: day("2018-09-22"), Phone: "555-444-5555", Address: "101 People Ave, Chicago, IL", Status: EmployeeOnLeave},
		{ID: "5", Name: "Robert Johnson", Email: "robert.j@company.com", Department: "Operations", Position: "Operations Manager", HireDate: day("2017-11-14"), Phone: "555-555-6666", Address: "202 Supply Road, Austin, TX", Status: EmployeeActive},
	}

	assignee := func(i int) *Employee {
		e := employees[i]
		return &e
	}

	tasks := []Task{
		{ID: "1", Title: "Complete inventory audit", Description: "Perform a full audit of warehouse inventory", Assignee: assignee(4), DueDate: day("2023-06-01"), Status: TaskInProgress, Priority: PriorityHigh},
		{ID: "2", Title: "Update product catalog", Description: "Add new product lines to the online catalog", Assignee: assignee(1), DueDate: day("2023-05-25"), Status: TaskTodo, Priority: PriorityMedium},
		{ID: "3", Title: "Process refund requests", Description: "Review and process pending customer refunds", Assignee: assignee(2), DueDate: day("2023-05-23"), Status: TaskCompleted, Priority: PriorityHigh},
		{ID: "4", Title: "Schedule employee training", Description: "Arrange training session for new inventory system", Assignee: assignee(3), DueDate: day("2023-06-10"), Status: TaskTodo, Priority: PriorityMedium},
		{ID: "5", Title: "Prepare monthly sales report", Description: "Compile and analyze sales data for the month", Assignee: assignee(2), DueDate: day("2023-05-30"), Status: TaskInProgress, Priority: PriorityHigh},
	}

	stats := DashboardStats{
		TotalSales:     320993,
		OrdersCount:    4,
		InventoryValue: 1649876,
		LowStockItems:  1,
		RecentOrders:   orders,
		TopProducts: []TopProduct{
			{Product: products[0], Sold: 5},
			{Product: products[6], Sold: 8},
			{Product: products[3], Sold: 3},
			{Product: products[2], Sold: 2},
		},
	}

	return &MockProvider{
		products:  products,
		customers: customers,
		orders:    orders,
		employees: employees,
		tasks:     tasks,
		stats:     stats,
	}
}

func (m *MockProvider) Products() []Product { return slices.Clone(m.products) }

func (m *MockProvider) Product(id string) (Product, error) {
	return find(m.products, "product", id, func(p Product) bool { return p.ID == id || p.SKU == id })
}

func (m *MockProvider) Orders() []Order { return cloneOrders(m.orders) }

// Order looks an order up by id or order number.
func (m *MockProvider) Order(id string) (Order, error) {
	o, err := find(m.orders, "order", id, func(o Order) bool { return o.ID == id || o.OrderNumber == id })
	if err != nil {
		return Order{}, err
	}
	o.Items = slices.Clone(o.Items)
	return o, nil
}

func (m *MockProvider) Customers() []Customer { return slices.Clone(m.customers) }

func (m *MockProvider) Customer(id string) (Customer, error) {
	return find(m.customers, "customer", id, func(c Customer) bool { return c.ID == id })
}

func (m *MockProvider) Employees() []Employee { return slices.Clone(m.employees) }

func (m *MockProvider) Employee(id string) (Employee, error) {
	return find(m.employees, "employee", id, func(e Employee) bool { return e.ID == id })
}

func (m *MockProvider) Tasks() []Task {
	out := make([]Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func (m *MockProvider) Task(id string) (Task, error) {
	t, err := find(m.tasks, "task", id, func(t Task) bool { return t.ID == id })
	if err != nil {
		return Task{}, err
	}
	return cloneTask(t), nil
}

func (m *MockProvider) DashboardStats() DashboardStats {
	s := m.stats
	s.RecentOrders = cloneOrders(m.stats.RecentOrders)
	s.TopProducts = slices.Clone(m.stats.TopProducts)
	return s
}

func find[T any](items []T, kind, id string, match func(T) bool) (T, error) {
	for _, it := range items {
		if match(it) {
			return it, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func cloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		o.Items = slices.Clone(o.Items)
		out[i] = o
	}
	return out
}

func cloneTask(t Task) Task {
	if t.Assignee != nil {
		e := *t.Assignee
		t.Assignee = &e
	}
	return t
}
