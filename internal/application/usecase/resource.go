package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// ErrInvalidBody el cuerpo no es un objeto JSON compatible con el recurso.
var ErrInvalidBody = errors.New("cuerpo JSON inválido")

// Caller usuario autenticado que ejecuta la operación.
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin indica si el usuario tiene rol admin.
func (c Caller) IsAdmin() bool { return c.Role == entity.RoleAdmin }

// Options configuración de un recurso.
type Options struct {
	// ReadOnly claves JSON ignoradas en create y update, además de id y timestamps.
	ReadOnly []string
	// OwnerFilter parámetro de filtro que limita el listado al usuario que llama.
	OwnerFilter string
	// ActiveFilter parámetro booleano de baja lógica: el listado lo fija a true
	// y los registros inactivos no se encuentran por id.
	ActiveFilter string
}

var baseReadOnly = []string{"id", "created_at", "updated_at"}

// Resource caso de uso genérico CRUD de un recurso del CRM.
type Resource[T any, PT interface {
	*T
	entity.Record
}] struct {
	name       string
	store      repository.Store[T]
	readOnly   map[string]struct{}
	owner      string
	active     string
	metrics    *metrics.Metrics
	now        func() time.Time
	beforeSave func(ctx context.Context, rec PT, creating bool) error
}

// NewResource construye el caso de uso de un recurso; name es la clave "<módulo>.<ruta>".
func NewResource[T any, PT interface {
	*T
	entity.Record
}](name string, store repository.Store[T], m *metrics.Metrics, opts Options) *Resource[T, PT] {
	ro := make(map[string]struct{}, len(baseReadOnly)+len(opts.ReadOnly))
	for _, k := range baseReadOnly {
		ro[k] = struct{}{}
	}
	for _, k := range opts.ReadOnly {
		ro[k] = struct{}{}
	}
	return &Resource[T, PT]{
		name:     name,
		store:    store,
		readOnly: ro,
		owner:    opts.OwnerFilter,
		active:   opts.ActiveFilter,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BeforeSave registra un hook que corre tras validar y antes de persistir.
func (r *Resource[T, PT]) BeforeSave(fn func(ctx context.Context, rec PT, creating bool) error) *Resource[T, PT] {
	r.beforeSave = fn
	return r
}

// WithClock reemplaza el reloj (tests).
func (r *Resource[T, PT]) WithClock(now func() time.Time) *Resource[T, PT] {
	r.now = now
	return r
}

// With devuelve una copia del recurso que persiste en store (stores atados a una transacción).
func (r *Resource[T, PT]) With(store repository.Store[T]) *Resource[T, PT] {
	cp := *r
	cp.store = store
	return &cp
}

func (r *Resource[T, PT]) Name() string                { return r.name }
func (r *Resource[T, PT]) Store() repository.Store[T] { return r.store }
func (r *Resource[T, PT]) Now() time.Time             { return r.now() }

// List devuelve una página del recurso.
func (r *Resource[T, PT]) List(ctx context.Context, caller Caller, q repository.ListQuery) (*dto.ListResponse[T], error) {
	if r.owner != "" {
		q = q.WithFilter(r.owner, caller.UserID)
	}
	if r.active != "" {
		q = q.WithFilter(r.active, "true")
	}
	items, total, err := r.store.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*T{}
	}
	for _, it := range items {
		redact(PT(it))
	}
	return &dto.ListResponse[T]{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Get obtiene un registro; ErrNotFound si no existe o no pertenece al usuario.
func (r *Resource[T, PT]) Get(ctx context.Context, caller Caller, id string) (*T, error) {
	rec, err := r.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	redact(rec)
	return rec, nil
}

// Create decodifica body sobre los defaults de la entidad, valida y persiste.
func (r *Resource[T, PT]) Create(ctx context.Context, caller Caller, body []byte) (*T, error) {
	_, clean, err := r.decode(body)
	if err != nil {
		return nil, err
	}
	rec := PT(new(T))
	if d, ok := any(rec).(interface{ Defaults() }); ok {
		d.Defaults()
	}
	if err := json.Unmarshal(clean, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return r.Insert(ctx, caller, rec)
}

// Insert persiste un registro construido en código (mensajes del bot, versiones...).
func (r *Resource[T, PT]) Insert(ctx context.Context, caller Caller, rec PT) (*T, error) {
	rec.SetID(uuid.NewString())
	if a, ok := any(rec).(entity.Authored); ok && caller.UserID != "" {
		a.SetAuthor(caller.UserID)
	}
	r.claim(caller, rec)
	if err := r.prepare(ctx, rec, true); err != nil {
		return nil, err
	}
	if err := r.store.Create(ctx, rec); err != nil {
		return nil, err
	}
	return r.reload(ctx, rec.GetID())
}

// Update aplica los campos presentes en body sobre el registro guardado (PUT y PATCH).
func (r *Resource[T, PT]) Update(ctx context.Context, caller Caller, id string, body []byte) (*T, error) {
	rec, err := r.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	fields, clean, err := r.decode(body)
	if err != nil {
		return nil, err
	}
	resetMaps(rec, fields)
	if err := json.Unmarshal(clean, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	rec.SetID(id)
	r.claim(caller, rec)
	if err := r.prepare(ctx, rec, false); err != nil {
		return nil, err
	}
	if err := r.store.Update(ctx, rec); err != nil {
		return nil, err
	}
	return r.reload(ctx, id)
}

// Delete elimina un registro.
func (r *Resource[T, PT]) Delete(ctx context.Context, caller Caller, id string) error {
	if id == "" {
		return domain.Invalid("id", "es obligatorio")
	}
	if r.owner != "" {
		if _, err := r.load(ctx, caller, id); err != nil {
			return err
		}
	}
	return r.store.Delete(ctx, id)
}

// Action carga el registro, aplica fn y lo guarda. Cuenta la acción en las métricas.
func (r *Resource[T, PT]) Action(ctx context.Context, caller Caller, id, action string, fn func(rec PT, now time.Time) error) (*T, error) {
	rec, err := r.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := fn(rec, r.now()); err != nil {
		return nil, err
	}
	if err := r.prepare(ctx, rec, false); err != nil {
		return nil, err
	}
	if err := r.store.Update(ctx, rec); err != nil {
		return nil, err
	}
	r.Track(action)
	return r.reload(ctx, id)
}

// Track cuenta una acción de colección en las métricas.
func (r *Resource[T, PT]) Track(action string) {
	r.metrics.ResourceAction(r.name, action)
}

// Find devuelve la lista sin paginar que cumple q (acciones de colección).
func (r *Resource[T, PT]) Find(ctx context.Context, caller Caller, q repository.ListQuery) ([]*T, error) {
	page, err := r.List(ctx, caller, q)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *Resource[T, PT]) load(ctx context.Context, caller Caller, id string) (PT, error) {
	if id == "" {
		return nil, domain.Invalid("id", "es obligatorio")
	}
	rec, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if o, ok := any(rec).(entity.Owned); ok && r.owner != "" && o.OwnerID() != caller.UserID {
		return nil, domain.ErrNotFound
	}
	if d, ok := any(rec).(entity.Deactivatable); ok && r.active != "" && !d.Active() {
		return nil, domain.ErrNotFound
	}
	return PT(rec), nil
}

// claim fija el dueño al usuario que llama; solo un admin puede asignar registros a otro usuario.
func (r *Resource[T, PT]) claim(caller Caller, rec PT) {
	o, ok := any(rec).(entity.Owned)
	if !ok || r.owner == "" || caller.IsAdmin() || caller.UserID == "" {
		return
	}
	o.SetOwner(caller.UserID)
}

func (r *Resource[T, PT]) reload(ctx context.Context, id string) (*T, error) {
	rec, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	redact(PT(rec))
	return rec, nil
}

func (r *Resource[T, PT]) prepare(ctx context.Context, rec PT, creating bool) error {
	rec.Prepare(r.now(), creating)
	if err := rec.Validate(); err != nil {
		return err
	}
	if r.beforeSave != nil {
		return r.beforeSave(ctx, rec, creating)
	}
	return nil
}

// decode parsea body como objeto y descarta las claves de solo lectura.
func (r *Resource[T, PT]) decode(body []byte) (map[string]json.RawMessage, []byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	for k := range fields {
		if _, ro := r.readOnly[k]; ro {
			delete(fields, k)
		}
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	clean, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return fields, clean, nil
}

// dropKeys elimina claves de un cuerpo JSON objeto.
func dropKeys(body []byte, keys ...string) ([]byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return body, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	for _, k := range keys {
		delete(fields, k)
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return out, nil
}

func redact(rec any) {
	if rd, ok := rec.(entity.Redactable); ok {
		rd.Redact()
	}
}

// resetMaps pone a nil los campos map presentes en el cuerpo: json.Unmarshal fusiona mapas existentes.
func resetMaps(rec any, present map[string]json.RawMessage) {
	walkJSONFields(reflect.ValueOf(rec).Elem(), func(name string, f reflect.Value) {
		if _, ok := present[name]; ok && f.Kind() == reflect.Map {
			f.Set(reflect.Zero(f.Type()))
		}
	})
}

func walkJSONFields(v reflect.Value, fn func(name string, f reflect.Value)) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			walkJSONFields(v.Field(i), fn)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fn(name, v.Field(i))
	}
}
