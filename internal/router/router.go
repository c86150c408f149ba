// Package router сопоставляет пути клиента ("/", "/signup", "/product",
// "/product/{id}") с экранами. Маршруты описаны через gorilla/mux.
package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
)

// Имена маршрутов.
const (
	RouteLogin         = "login"
	RouteSignup        = "signup"
	RouteProducts      = "products"
	RouteProductDetail = "product-detail"
)

// Пути маршрутов.
const (
	PathLogin    = "/"
	PathSignup   = "/signup"
	PathProducts = "/product"
)

// ErrUnknownRoute возвращается для пути, не соответствующего ни одному маршруту.
var ErrUnknownRoute = errors.New("неизвестный маршрут")

// Route - результат сопоставления пути.
type Route struct {
	Name      string
	Path      string
	ProductID int64 // Только для RouteProductDetail
}

// Router сопоставляет пути с маршрутами.
type Router struct {
	mux *mux.Router
}

// nopHandler нужен mux для регистрации маршрута; обработка идет в TUI.
var nopHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// New создает маршрутизатор клиента.
func New() *Router {
	r := mux.NewRouter()
	r.Handle(PathLogin, nopHandler).Name(RouteLogin)
	r.Handle(PathSignup, nopHandler).Name(RouteSignup)
	r.Handle(PathProducts, nopHandler).Name(RouteProducts)
	r.Handle(PathProducts+"/{id:[0-9]+}", nopHandler).Name(RouteProductDetail)
	return &Router{mux: r}
}

// Match сопоставляет путь с маршрутом.
func (r *Router) Match(path string) (Route, error) {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}
	var match mux.RouteMatch
	if !r.mux.Match(req, &match) || match.Route == nil {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	route := Route{Name: match.Route.GetName(), Path: path}
	if id, ok := match.Vars["id"]; ok {
		productID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return Route{}, fmt.Errorf("%w: некорректный id товара %q", ErrUnknownRoute, id)
		}
		route.ProductID = productID
	}
	return route, nil
}

// ProductPath возвращает путь экрана товара.
func (r *Router) ProductPath(id int64) string {
	u, err := r.mux.Get(RouteProductDetail).URLPath("id", strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Sprintf("%s/%d", PathProducts, id)
	}
	return u.Path
}
