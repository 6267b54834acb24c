// Package catalog is the client side of the product REST API.
//
// It holds the wire types (Product, Category, ProductInput), the editable Draft
// form representation together with its validation rules, and Client, a thin
// net/http wrapper for the /api/products collection.
//
// # Endpoints
//
//	GET    /api/products       list the whole collection
//	POST   /api/products       create, server assigns id and createdAt
//	PUT    /api/products/{id}  replace name/price/description/category
//	DELETE /api/products/{id}  remove
//
// Any response outside 2xx is returned as *ServerError; failures to reach the
// server at all are returned as *TransportError. Validation failures detected
// before a request is sent are *ValidationError and match ErrValidation.
package catalog
