package models

// ReferenceKind discriminates which service owns a referenced entity.
type ReferenceKind string

const (
	ReferenceKindProduct ReferenceKind = "PRODUCT"
	ReferenceKindUser    ReferenceKind = "USER"
)

// Reference is a stub for an entity owned by another service. The owning
// service can resolve it by id alone; the order service never embeds foreign
// entity data directly.
type Reference struct {
	Kind ReferenceKind `json:"kind"`
	ID   string        `json:"id"`
}

// ProductRef builds a reference stub to a catalog product.
func ProductRef(id string) Reference {
	return Reference{Kind: ReferenceKindProduct, ID: id}
}

// UserRef builds a reference stub to an identity user.
func UserRef(id string) Reference {
	return Reference{Kind: ReferenceKindUser, ID: id}
}
