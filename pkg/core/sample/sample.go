package sample

import (
	// 外部依赖
	"context"

	// 内部引用
	model "github.com/naturlab/genlab/service/pkg/model"
)

// Service covers the sample store: bulk intake, content updates with
// the post-delivery freeze, the validity predicate, replica creation
// and batch genlab id assignment.
type Service interface {
	// BulkCreate inserts Quantity copies of the template under a
	// draft extraction order.
	BulkCreate(ctx context.Context, req *BulkCreateReq) (*BulkCreateResp, error)
	Get(ctx context.Context, req *GetReq) (*SampleResp, error)
	ListByOrder(ctx context.Context, req *ListReq) (*ListResp, error)
	// Update patches sample content. Once the owning order left
	// draft only the isolation fields, the internal note and the
	// priority flag may change.
	Update(ctx context.Context, req *UpdateReq) error
	// CreateReplica duplicates a sample with a cleared genlab id and
	// parent set to the original.
	CreateReplica(ctx context.Context, req *GetReq) (*SampleResp, error)
	// GenerateGenlabIDs assigns ids to the selected unassigned
	// samples of an order in natural name order, one transaction.
	GenerateGenlabIDs(ctx context.Context, req *GenerateReq) (*GenerateResp, error)
}

// Violations returns every completeness and compatibility violation
// of a sample, empty when the sample is valid. The species,
// its location type and the location's types must be preloaded;
// locationMandatory comes from the owning genrequest's area.
func Violations(s *model.Sample, locationMandatory bool) []string {
	var out []string

	if s.Name == "" {
		out = append(out, "name is empty")
	}
	if s.SampleTypeID == nil {
		out = append(out, "sample type is missing")
	}
	if s.GUID == nil || *s.GUID == "" {
		out = append(out, "guid is missing")
	}
	if s.SpeciesID == nil || s.Species == nil {
		out = append(out, "species is missing")
	}
	if s.Year == nil {
		out = append(out, "year is missing")
	}

	var locationType *model.LocationType
	if s.Species != nil {
		locationType = s.Species.LocationType
	}

	if locationMandatory {
		if s.LocationID == nil || s.Location == nil {
			out = append(out, "location is required in this area")
		} else if locationType != nil && !s.Location.HasType(locationType.ID) {
			out = append(out, "location does not support the species location type")
		}
	} else if s.LocationID != nil && s.Location != nil &&
		locationType != nil && !s.Location.HasType(locationType.ID) {
		out = append(out, "location does not support the species location type")
	}

	return out
}
