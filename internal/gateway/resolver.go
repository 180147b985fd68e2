// Package gateway is the single public entry point: it verifies tokens,
// routes requests to the owning service and expands reference stubs in
// order responses.
package gateway

import (
	"context"
	"encoding/json"

	"github.com/marketmesh/marketmesh/internal/clients"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

// Resolver turns a reference stub of one kind into the owning service's
// entity. Returning (nil, nil) means the entity does not exist.
type Resolver interface {
	Resolve(ctx context.Context, id string) (interface{}, error)
}

// ResolverRegistry maps reference kinds to their resolvers.
type ResolverRegistry struct {
	resolvers map[models.ReferenceKind]Resolver
	logger    *logging.Logger
}

// NewResolverRegistry creates an empty registry.
func NewResolverRegistry(logger *logging.Logger) *ResolverRegistry {
	return &ResolverRegistry{
		resolvers: make(map[models.ReferenceKind]Resolver),
		logger:    logger,
	}
}

// Register installs the resolver for a kind.
func (r *ResolverRegistry) Register(kind models.ReferenceKind, resolver Resolver) {
	r.resolvers[kind] = resolver
}

// Expand walks a JSON document and replaces every reference stub whose kind
// has a registered resolver with the resolved entity. Stubs that fail to
// resolve are left intact so a subgraph outage degrades the response instead
// of failing it.
func (r *ResolverRegistry) Expand(ctx context.Context, body []byte) []byte {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return body
	}

	expanded, err := json.Marshal(r.expandValue(ctx, doc))
	if err != nil {
		return body
	}
	return expanded
}

func (r *ResolverRegistry) expandValue(ctx context.Context, v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		if kind, id, ok := referenceStub(val); ok {
			if resolved := r.resolve(ctx, kind, id); resolved != nil {
				return resolved
			}
			return val
		}
		for k, child := range val {
			val[k] = r.expandValue(ctx, child)
		}
		return val
	case []interface{}:
		for i, child := range val {
			val[i] = r.expandValue(ctx, child)
		}
		return val
	default:
		return v
	}
}

func (r *ResolverRegistry) resolve(ctx context.Context, kind models.ReferenceKind, id string) interface{} {
	resolver, ok := r.resolvers[kind]
	if !ok {
		return nil
	}

	entity, err := resolver.Resolve(ctx, id)
	if err != nil {
		r.logger.Warn("Reference resolution failed", logging.Fields{
			"kind":  string(kind),
			"id":    id,
			"error": err.Error(),
		})
		return nil
	}
	return entity
}

// referenceStub reports whether an object is exactly a {"kind","id"} stub
// with a known kind.
func referenceStub(obj map[string]interface{}) (models.ReferenceKind, string, bool) {
	if len(obj) != 2 {
		return "", "", false
	}
	kindVal, ok := obj["kind"].(string)
	if !ok {
		return "", "", false
	}
	id, ok := obj["id"].(string)
	if !ok {
		return "", "", false
	}

	kind := models.ReferenceKind(kindVal)
	if kind != models.ReferenceKindProduct && kind != models.ReferenceKindUser {
		return "", "", false
	}
	return kind, id, true
}

// ProductResolver resolves PRODUCT references through the catalog service.
type ProductResolver struct {
	catalog clients.CatalogClient
}

// NewProductResolver creates a product resolver.
func NewProductResolver(catalog clients.CatalogClient) *ProductResolver {
	return &ProductResolver{catalog: catalog}
}

func (r *ProductResolver) Resolve(ctx context.Context, id string) (interface{}, error) {
	product, err := r.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return product, nil
}

// UserResolver resolves USER references through the identity service.
type UserResolver struct {
	identity clients.IdentityClient
}

// NewUserResolver creates a user resolver.
func NewUserResolver(identity clients.IdentityClient) *UserResolver {
	return &UserResolver{identity: identity}
}

func (r *UserResolver) Resolve(ctx context.Context, id string) (interface{}, error) {
	user, err := r.identity.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user, nil
}
