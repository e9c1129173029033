package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/pkg/routing"
)

// ForClass applies mw only to requests the classifier assigns to class.
func ForClass(classifier *routing.Classifier, class routing.RouteClass, mw mux.MiddlewareFunc) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if classifier.Classify(r) == class {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
