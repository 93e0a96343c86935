package catalog

import (
	// 外部依赖
	"context"
	"encoding/csv"
	"io"
	"strings"
	"sync/atomic"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	core "github.com/naturlab/genlab/service/pkg/core/catalog"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	repo "github.com/naturlab/genlab/service/pkg/repo"
	repoCatalog "github.com/naturlab/genlab/service/pkg/repo/catalog"
)

type catalogImpl struct {
	store    repo.CatalogRepo
	snapshot atomic.Pointer[core.Snapshot]
}

func New() core.Service {
	return &catalogImpl{store: repoCatalog.New()}
}

func (c *catalogImpl) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	if snap := c.snapshot.Load(); snap != nil {
		return snap, nil
	}
	return c.Refresh(ctx)
}

func (c *catalogImpl) Refresh(ctx context.Context) (*core.Snapshot, error) {
	snap := &core.Snapshot{}
	var err error

	if snap.Areas, err = c.store.ListAreas(ctx); err != nil {
		return nil, err
	}
	if snap.Species, err = c.store.ListSpecies(ctx); err != nil {
		return nil, err
	}
	if snap.SampleTypes, err = c.store.ListSampleTypes(ctx); err != nil {
		return nil, err
	}
	if snap.Markers, err = c.store.ListMarkers(ctx); err != nil {
		return nil, err
	}
	if snap.Locations, err = c.store.ListLocations(ctx); err != nil {
		return nil, err
	}
	if snap.LocationTypes, err = c.store.ListLocationTypes(ctx); err != nil {
		return nil, err
	}
	if snap.IsolationMethods, err = c.store.ListIsolationMethods(ctx); err != nil {
		return nil, err
	}
	if snap.EquipmentTypes, err = c.store.ListEquipmentTypes(ctx); err != nil {
		return nil, err
	}
	if snap.Buffers, err = c.store.ListBuffers(ctx); err != nil {
		return nil, err
	}

	snap.Index()
	c.snapshot.Store(snap)
	return snap, nil
}

func (c *catalogImpl) List(ctx context.Context) (*core.ListResp, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &core.ListResp{
		Areas:            snap.Areas,
		Species:          snap.Species,
		SampleTypes:      snap.SampleTypes,
		Markers:          snap.Markers,
		Locations:        snap.Locations,
		LocationTypes:    snap.LocationTypes,
		IsolationMethods: snap.IsolationMethods,
		EquipmentTypes:   snap.EquipmentTypes,
		Buffers:          snap.Buffers,
	}, nil
}

// seed files are tab separated with a header row; column lookup is by
// header name so column order does not matter.
func readTSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, code.ParamErr.WithMsg("seed file has no header row").WithErr(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, code.ParamErr.WithMsg("malformed seed row").WithErr(err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportSpeciesTSV expects the columns Area, Species, Code,
// "Analysis method" and Marker. Every referenced entity is created on
// first sight and reused afterwards, so re-importing is harmless.
func (c *catalogImpl) ImportSpeciesTSV(ctx context.Context, r io.Reader) (*core.ImportResp, error) {
	rows, err := readTSV(r)
	if err != nil {
		return nil, err
	}

	err = c.store.ExecTx(ctx, func(ctx context.Context) error {
		for _, row := range rows {
			areaName, speciesName := row["Area"], row["Species"]
			if areaName == "" || speciesName == "" {
				continue
			}

			area, err := c.store.GetOrCreateArea(ctx, areaName)
			if err != nil {
				return err
			}

			var codeVal *string
			if v := row["Code"]; v != "" {
				codeVal = &v
			}
			species, err := c.store.GetOrCreateSpecies(ctx, area.ID, speciesName, codeVal)
			if err != nil {
				return err
			}

			markerName := row["Marker"]
			if markerName == "" {
				continue
			}
			var analysisTypeID *int64
			if method := row["Analysis method"]; method != "" {
				at, err := c.store.GetOrCreateAnalysisType(ctx, method)
				if err != nil {
					return err
				}
				analysisTypeID = &at.ID
			}
			marker, err := c.store.GetOrCreateMarker(ctx, markerName, analysisTypeID)
			if err != nil {
				return err
			}
			if err := c.store.AddSpeciesMarker(ctx, species, marker); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "ImportSpeciesTSV err: %+v", err)
		return nil, err
	}

	if _, err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return &core.ImportResp{Rows: len(rows)}, nil
}

// ImportSampleTypesTSV expects the columns Area and "Sample type"; the
// sample type gains the area as a membership.
func (c *catalogImpl) ImportSampleTypesTSV(ctx context.Context, r io.Reader) (*core.ImportResp, error) {
	rows, err := readTSV(r)
	if err != nil {
		return nil, err
	}

	err = c.store.ExecTx(ctx, func(ctx context.Context) error {
		for _, row := range rows {
			areaName, typeName := row["Area"], row["Sample type"]
			if areaName == "" || typeName == "" {
				continue
			}

			area, err := c.store.GetOrCreateArea(ctx, areaName)
			if err != nil {
				return err
			}
			sampleType, err := c.store.GetOrCreateSampleType(ctx, typeName)
			if err != nil {
				return err
			}
			if err := c.store.AddSampleTypeArea(ctx, sampleType, area); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "ImportSampleTypesTSV err: %+v", err)
		return nil, err
	}

	if _, err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return &core.ImportResp{Rows: len(rows)}, nil
}
