package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Provider lookups for unknown ids.
var ErrNotFound = errors.New("not found")

type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Category     string `json:"category"`
	Price        Money  `json:"price"`
	Cost         Money  `json:"cost"`
	Stock        int    `json:"stock"`
	ReorderLevel int    `json:"reorderLevel"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

type Customer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

type OrderItem struct {
	ID        string  `json:"id"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice Money   `json:"unitPrice"`
}

type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Customer    Customer    `json:"customer"`
	Date        time.Time   `json:"date"`
	Status      OrderStatus `json:"status"`
	Total       Money       `json:"total"`
	Items       []OrderItem `json:"items"`
}

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeOnLeave    EmployeeStatus = "on-leave"
	EmployeeTerminated EmployeeStatus = "terminated"
)

type Employee struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Department string         `json:"department"`
	Position   string         `json:"position"`
	HireDate   time.Time      `json:"hireDate"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	Status     EmployeeStatus `json:"status"`
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Assignee    *Employee    `json:"assignee,omitempty"`
	DueDate     time.Time    `json:"dueDate"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
}

// TopProduct pairs a product with the units sold.
type TopProduct struct {
	Product Product `json:"product"`
	Sold    int     `json:"sold"`
}

// DashboardStats is the pre-computed summary shipped with the dataset.
type DashboardStats struct {
	TotalSales     Money        `json:"totalSales"`
	OrdersCount    int          `json:"ordersCount"`
	InventoryValue Money        `json:"inventoryValue"`
	LowStockItems  int          `json:"lowStockItems"`
	RecentOrders   []Order      `json:"recentOrders"`
	TopProducts    []TopProduct `json:"topProducts"`
}

// Provider is the read-only source of business data.
type Provider interface {
	Products() []Product
	Product(id string) (Product, error)
	Orders() []Order
	Order(id string) (Order, error)
	Customers() []Customer
	Customer(id string) (Customer, error)
	Employees() []Employee
	Employee(id string) (Employee, error)
	Tasks() []Task
	Task(id string) (Task, error)
	DashboardStats() DashboardStats
}
