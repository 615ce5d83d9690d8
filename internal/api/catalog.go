package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/dashboard"
)

func (s *Server) dashboard(w http.ResponseWriter, _ *http.Request) {
	ok(w, dashboard.Summarize(s.app.Catalog))
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := catalog.FilterProducts(s.app.Catalog.Products(), catalog.ProductQuery{
		Text:     q.Get("q"),
		SKU:      q.Get("sku"),
		Category: q.Get("category"),
	})
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	ok(w, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, s.app.Catalog.Product)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders := catalog.FilterOrders(s.app.Catalog.Orders(), r.URL.Query().Get("q"))
	if status := r.URL.Query().Get("status"); status != "" {
		kept := []catalog.Order{}
		for _, o := range orders {
			if string(o.Status) == status {
				kept = append(kept, o)
			}
		}
		orders = kept
	}
	ok(w, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, s.app.Catalog.Order)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	o, err := s.app.Catalog.Order(chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	ok(w, dashboard.Invoice(o))
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	ok(w, catalog.FilterCustomers(s.app.Catalog.Customers(), r.URL.Query().Get("q")))
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, s.app.Catalog.Customer)
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	ok(w, catalog.FilterEmployees(s.app.Catalog.Employees(), r.URL.Query().Get("q")))
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, s.app.Catalog.Employee)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ok(w, catalog.FilterTasks(s.app.Catalog.Tasks(), catalog.TaskQuery{
		Text:     q.Get("q"),
		Status:   catalog.TaskStatus(q.Get("status")),
		Priority: catalog.TaskPriority(q.Get("priority")),
	}))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, s.app.Catalog.Task)
}

func (s *Server) scanInventory(w http.ResponseWriter, r *http.Request) {
	emitted, err := s.app.Stock.Scan(r.Context())
	if err != nil {
		s.log.Error().Ctx(r.Context()).Err(err).Msg("inventory scan")
		internalError(w, "inventory scan failed")
		return
	}
	ok(w, emitted)
}

func lookup[T any](w http.ResponseWriter, r *http.Request, get func(string) (T, error)) {
	v, err := get(chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	ok(w, v)
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		notFound(w, err.Error())
		return
	}
	internalError(w, err.Error())
}
