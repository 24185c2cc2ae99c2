package domain

// Collection names as they exist in the document store.
const (
	CollectionProjects = "Projects"
	CollectionCreators = "creators"
	CollectionServices = "ProductsAndServices"
)

// Reference field names on raw documents.
const (
	FieldCreators       = "creators"
	FieldServices       = "ProductsAndServices"
	FieldInspirationBin = "Inspiration-bin"
)

type EntityKind int

const (
	KindProject EntityKind = iota + 1
	KindCreator
	KindService
)

func (k EntityKind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindCreator:
		return "creator"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Collection returns the collection documents of this kind live in.
func (k EntityKind) Collection() string {
	switch k {
	case KindProject:
		return CollectionProjects
	case KindCreator:
		return CollectionCreators
	case KindService:
		return CollectionServices
	default:
		return ""
	}
}
