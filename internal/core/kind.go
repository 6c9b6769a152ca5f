package core

import "fmt"

// Kind describes one moderated entity type. The ref rule is fixed per kind:
// blogs and categories are addressed by permalink, comments by numeric id.
type Kind struct {
	Name           string
	RefField       string
	HasPublishAxis bool
}

var (
	KindBlog     = Kind{Name: "blog", RefField: "permalink", HasPublishAxis: true}
	KindCategory = Kind{Name: "category", RefField: "permalink"}
	KindComment  = Kind{Name: "comment", RefField: "id"}
)

func KindByName(name string) (Kind, error) {
	switch name {
	case KindBlog.Name:
		return KindBlog, nil
	case KindCategory.Name:
		return KindCategory, nil
	case KindComment.Name:
		return KindComment, nil
	}
	return Kind{}, fmt.Errorf("unknown entity kind %q: %w", name, ErrNotFound)
}

// Ownership is the minimal snapshot the policy and state machine need about
// an existing resource. Published is nil for kinds without a publish axis.
type Ownership struct {
	ID        uint
	OwnerID   uint
	Status    Status
	Published *bool
	Version   uint
}
