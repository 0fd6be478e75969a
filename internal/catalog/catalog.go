// Package catalog is the write path for callers that want the
// construct, validate, persist sequence: every candidate can be checked
// with a Validate method and written with the matching Commit method, or
// both at once with Add. Every commit, delete and rejection is recorded in
// the mutation journal.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/papapumpkin/sysarch/internal/logger"
	"github.com/papapumpkin/sysarch/internal/model"
	"github.com/papapumpkin/sysarch/internal/store"
	"github.com/papapumpkin/sysarch/internal/telemetry"
	"github.com/papapumpkin/sysarch/internal/validate"
)

// Service validates and commits catalog mutations.
type Service struct {
	store   *store.Store
	log     *logger.Logger
	journal *telemetry.Emitter
}

// New returns a Service over st. A nil log discards diagnostics and a nil
// journal records nothing.
func New(st *store.Store, log *logger.Logger, journal *telemetry.Emitter) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: st, log: log, journal: journal}
}

// Store returns the underlying entity store for read access.
func (s *Service) Store() *store.Store {
	return s.store
}

// record journals an event. Journal failures are logged, never returned:
// the mutation they describe has already been committed.
func (s *Service) record(kind, entity string, id int64, data any) {
	if err := s.journal.Record(kind, entity, id, data); err != nil {
		s.log.Warn("journal write failed", "kind", kind, "entity", entity, "id", id, "error", err)
	}
}

// reject journals a failed validation and converts it into an error.
func (s *Service) reject(op, entity string, res validate.Result) error {
	s.record(telemetry.KindRejected, entity, 0, res)
	s.log.Info("candidate rejected", "op", op, "category", res.Category, "reason", res.Reason)
	return fmt.Errorf("catalog: %s: %w", op, res.Err())
}

// ValidateAssemblyItem checks a candidate item against a consistent view of
// the catalog.
func (s *Service) ValidateAssemblyItem(ctx context.Context, it model.AssemblyItem) (validate.Result, error) {
	var res validate.Result
	err := s.store.ReadTx(ctx, func(tx store.Tx) error {
		var err error
		res, err = validate.AssemblyItem(ctx, tx, it)
		return err
	})
	if err != nil {
		return validate.Result{}, fmt.Errorf("catalog: validate assembly item: %w", err)
	}
	return res, nil
}

// CommitAssemblyItem writes an item. The store re-checks the target rule and
// the cycle guard in the writing transaction.
func (s *Service) CommitAssemblyItem(ctx context.Context, it model.AssemblyItem) (int64, error) {
	id, err := s.store.CreateAssemblyItem(ctx, it)
	if err != nil {
		return 0, fmt.Errorf("catalog: commit assembly item: %w", err)
	}
	it.ID = id
	s.record(telemetry.KindCreated, telemetry.EntityAssemblyItem, id, it)
	return id, nil
}

// AddAssemblyItem validates then commits an item.
func (s *Service) AddAssemblyItem(ctx context.Context, it model.AssemblyItem) (int64, error) {
	res, err := s.ValidateAssemblyItem(ctx, it)
	if err != nil {
		return 0, err
	}
	if !res.Valid {
		return 0, s.reject("add assembly item", telemetry.EntityAssemblyItem, res)
	}
	return s.CommitAssemblyItem(ctx, it)
}

// ValidateConnector checks a candidate connector against a consistent view
// of the catalog.
func (s *Service) ValidateConnector(ctx context.Context, c model.Connector) (validate.Result, error) {
	var res validate.Result
	err := s.store.ReadTx(ctx, func(tx store.Tx) error {
		var err error
		res, err = validate.Connector(ctx, tx, c)
		return err
	})
	if err != nil {
		return validate.Result{}, fmt.Errorf("catalog: validate connector: %w", err)
	}
	return res, nil
}

// CommitConnector writes a connector.
func (s *Service) CommitConnector(ctx context.Context, c model.Connector) (int64, error) {
	id, err := s.store.CreateConnector(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("catalog: commit connector: %w", err)
	}
	c.ID = id
	s.record(telemetry.KindCreated, telemetry.EntityConnector, id, c)
	return id, nil
}

// AddConnector validates then commits a connector.
func (s *Service) AddConnector(ctx context.Context, c model.Connector) (int64, error) {
	res, err := s.ValidateConnector(ctx, c)
	if err != nil {
		return 0, err
	}
	if !res.Valid {
		return 0, s.reject("add connector", telemetry.EntityConnector, res)
	}
	return s.CommitConnector(ctx, c)
}

// AddSystem creates a system. The overall assembly must exist when set.
func (s *Service) AddSystem(ctx context.Context, sys model.System) (int64, error) {
	const op = "add system"
	if sys.OverallAssemblyID != nil {
		a, err := s.store.GetAssembly(ctx, *sys.OverallAssemblyID)
		if err != nil {
			return 0, fmt.Errorf("catalog: %s: %w", op, err)
		}
		if a == nil {
			return 0, s.reject(op, telemetry.EntitySystem, validate.Result{
				Category: model.CatMissingAssembly,
				Reason:   fmt.Sprintf("overall assembly (id %d) does not exist", *sys.OverallAssemblyID),
			})
		}
	}
	id, err := s.store.CreateSystem(ctx, sys)
	if err != nil {
		return 0, fmt.Errorf("catalog: %s: %w", op, err)
	}
	sys.ID = id
	s.record(telemetry.KindCreated, telemetry.EntitySystem, id, sys)
	return id, nil
}

// UpdateSystem rewrites a system's name and overall assembly. The overall
// assembly must exist when set.
func (s *Service) UpdateSystem(ctx context.Context, sys model.System) error {
	const op = "update system"
	if sys.OverallAssemblyID != nil {
		a, err := s.store.GetAssembly(ctx, *sys.OverallAssemblyID)
		if err != nil {
			return fmt.Errorf("catalog: %s: %w", op, err)
		}
		if a == nil {
			return s.reject(op, telemetry.EntitySystem, validate.Result{
				Category: model.CatMissingAssembly,
				Reason:   fmt.Sprintf("overall assembly (id %d) does not exist", *sys.OverallAssemblyID),
			})
		}
	}
	if err := s.store.UpdateSystem(ctx, sys); err != nil {
		return fmt.Errorf("catalog: %s: %w", op, err)
	}
	s.record(telemetry.KindUpdated, telemetry.EntitySystem, sys.ID, sys)
	return nil
}

// AddPart creates a part.
func (s *Service) AddPart(ctx context.Context, p model.Part) (int64, error) {
	id, err := s.store.CreatePart(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("catalog: add part: %w", err)
	}
	p.ID = id
	s.record(telemetry.KindCreated, telemetry.EntityPart, id, p)
	return id, nil
}

// AddFeature creates a feature on an existing part.
func (s *Service) AddFeature(ctx context.Context, f model.Feature) (int64, error) {
	const op = "add feature"
	p, err := s.store.GetPart(ctx, f.PartID)
	if err != nil {
		return 0, fmt.Errorf("catalog: %s: %w", op, err)
	}
	if p == nil {
		return 0, s.reject(op, telemetry.EntityFeature, validate.Result{
			Category: model.CatMissingPart,
			Reason:   fmt.Sprintf("part (id %d) does not exist", f.PartID),
		})
	}
	id, err := s.store.CreateFeature(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("catalog: %s: %w", op, err)
	}
	f.ID = id
	s.record(telemetry.KindCreated, telemetry.EntityFeature, id, f)
	return id, nil
}

// AddAssembly creates an assembly. The system and parent assembly must exist
// when set.
func (s *Service) AddAssembly(ctx context.Context, a model.Assembly) (int64, error) {
	const op = "add assembly"
	if a.SystemID != nil {
		sys, err := s.store.GetSystem(ctx, *a.SystemID)
		if err != nil {
			return 0, fmt.Errorf("catalog: %s: %w", op, err)
		}
		if sys == nil {
			return 0, s.reject(op, telemetry.EntityAssembly, validate.Result{
				Category: model.CatMissingSystem,
				Reason:   fmt.Sprintf("system (id %d) does not exist", *a.SystemID),
			})
		}
	}
	if a.ParentAssemblyID != nil {
		parent, err := s.store.GetAssembly(ctx, *a.ParentAssemblyID)
		if err != nil {
			return 0, fmt.Errorf("catalog: %s: %w", op, err)
		}
		if parent == nil {
			return 0, s.reject(op, telemetry.EntityAssembly, validate.Result{
				Category: model.CatMissingAssembly,
				Reason:   fmt.Sprintf("parent assembly (id %d) does not exist", *a.ParentAssemblyID),
			})
		}
	}
	id, err := s.store.CreateAssembly(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("catalog: %s: %w", op, err)
	}
	a.ID = id
	s.record(telemetry.KindCreated, telemetry.EntityAssembly, id, a)
	return id, nil
}

// Imported journals a completed manifest import. summary describes what the
// import created.
func (s *Service) Imported(source string, summary any) {
	s.log.Info("manifest imported", "source", source)
	s.record(telemetry.KindImported, telemetry.EntityManifest, 0, summary)
}

// Kind names a catalog entity kind for Delete.
type Kind string

// Entity kinds accepted by Delete.
const (
	KindSystem       Kind = "system"
	KindAssembly     Kind = "assembly"
	KindPart         Kind = "part"
	KindFeature      Kind = "feature"
	KindAssemblyItem Kind = "item"
	KindConnector    Kind = "connector"
)

// Kinds returns every deletable kind.
func Kinds() []Kind {
	return []Kind{KindSystem, KindAssembly, KindPart, KindFeature, KindAssemblyItem, KindConnector}
}

// ParseKind resolves a user-supplied kind name. "assembly-item" and
// "assembly_item" are accepted for items.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSystem, KindAssembly, KindPart, KindFeature, KindAssemblyItem, KindConnector:
		return k, nil
	case "assembly-item", "assembly_item":
		return KindAssemblyItem, nil
	}
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return "", fmt.Errorf("catalog: %w: unknown kind %q (want one of: %s)",
		model.ErrInvalidArgument, s, strings.Join(names, ", "))
}

// Delete removes one entity of the given kind. Dependent rows follow the
// store's cascade rules.
func (s *Service) Delete(ctx context.Context, kind Kind, id int64) error {
	var (
		err    error
		entity string
	)
	switch kind {
	case KindSystem:
		entity, err = telemetry.EntitySystem, s.store.DeleteSystem(ctx, id)
	case KindAssembly:
		entity, err = telemetry.EntityAssembly, s.store.DeleteAssembly(ctx, id)
	case KindPart:
		entity, err = telemetry.EntityPart, s.store.DeletePart(ctx, id)
	case KindFeature:
		entity, err = telemetry.EntityFeature, s.store.DeleteFeature(ctx, id)
	case KindAssemblyItem:
		entity, err = telemetry.EntityAssemblyItem, s.store.DeleteAssemblyItem(ctx, id)
	case KindConnector:
		entity, err = telemetry.EntityConnector, s.store.DeleteConnector(ctx, id)
	default:
		return fmt.Errorf("catalog: delete: %w: unknown kind %q", model.ErrInvalidArgument, kind)
	}
	if err != nil {
		return fmt.Errorf("catalog: delete %s: %w", kind, err)
	}
	s.record(telemetry.KindDeleted, entity, id, nil)
	return nil
}
