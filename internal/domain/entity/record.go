package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain"
)

// Record es el contrato común de todas las entidades del CRM expuestas como recurso.
type Record interface {
	GetID() string
	SetID(id string)
	// Prepare aplica defaults y campos derivados antes de persistir.
	Prepare(now time.Time, creating bool)
	Validate() error
}

// Authored lo implementan las entidades con created_by/author/user: se completa con el usuario del token.
type Authored interface {
	SetAuthor(userID string)
}

// Owned lo implementan las entidades visibles solo para su dueño (notificaciones).
type Owned interface {
	OwnerID() string
	SetOwner(userID string)
}

// Deactivatable lo implementan las entidades con baja lógica por is_active.
type Deactivatable interface {
	Active() bool
}

// Redactable limpia campos de solo escritura antes de responder.
type Redactable interface {
	Redact()
}

// Identity aporta el id UUID a cada entidad.
type Identity struct {
	ID string `json:"id" db:"id"`
}

func (i *Identity) GetID() string   { return i.ID }
func (i *Identity) SetID(id string) { i.ID = id }

// JSONMap y JSONList se guardan como JSONB.
type (
	JSONMap  = map[string]any
	JSONList = []any
)

// ── Date ─────────────────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// Date es una fecha sin hora (columna DATE). Valid=false representa NULL.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate trunca t al día.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ParseDate interpreta "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t, Valid: true}, nil
}

func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// Before compara dos fechas válidas.
func (d Date) Before(o Date) bool { return d.Valid && o.Valid && d.Time.Before(o.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	// Se aceptan también timestamps completos; se trunca al día.
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		*d = NewDate(t)
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("fecha inválida %q, formato esperado YYYY-MM-DD", raw)
	}
	*d = parsed
	return nil
}

// Scan implementa sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v)
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("entity.Date: tipo no soportado %T", src)
	}
	return nil
}

// Value implementa driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Time, nil
}

// ── Validaciones ─────────────────────────────────────────────────────────────

var (
	hexColorRe  = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	clockTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Check devuelve el primer error no nulo.
func Check(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalid(field, "es obligatorio")
	}
	return nil
}

func RequiredDate(field string, d Date) error {
	if !d.Valid {
		return domain.Invalid(field, "es obligatorio")
	}
	return nil
}

// OneOf valida un valor enumerado; el valor vacío se considera ausente.
func OneOf(field, value string, allowed ...string) error {
	if value == "" {
		return domain.Invalid(field, "es obligatorio")
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return domain.Invalid(field, fmt.Sprintf("valor %q no permitido (%s)", value, strings.Join(allowed, ", ")))
}

func Email(field, value string) error {
	if value == "" {
		return domain.Invalid(field, "es obligatorio")
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return domain.Invalid(field, "email inválido")
	}
	return nil
}

// OptionalEmail valida solo si hay valor.
func OptionalEmail(field, value string) error {
	if value == "" {
		return nil
	}
	return Email(field, value)
}

func IntRange(field string, v, min, max int) error {
	if v < min || v > max {
		return domain.Invalid(field, fmt.Sprintf("debe estar entre %d y %d", min, max))
	}
	return nil
}

// OptionalIntRange valida un entero opcional.
func OptionalIntRange(field string, v *int, min, max int) error {
	if v == nil {
		return nil
	}
	return IntRange(field, *v, min, max)
}

func Positive(field string, v int) error {
	if v <= 0 {
		return domain.Invalid(field, "debe ser mayor que cero")
	}
	return nil
}

func NonNegative(field string, v int) error {
	if v < 0 {
		return domain.Invalid(field, "no puede ser negativo")
	}
	return nil
}

func DecimalRange(field string, v decimal.Decimal, min, max int64) error {
	if v.LessThan(decimal.NewFromInt(min)) || v.GreaterThan(decimal.NewFromInt(max)) {
		return domain.Invalid(field, fmt.Sprintf("debe estar entre %d y %d", min, max))
	}
	return nil
}

// UnitInterval valida valores 0..1 (confianza).
func UnitInterval(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
		return domain.Invalid(field, "debe estar entre 0 y 1")
	}
	return nil
}

func NonNegativeDecimal(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, "no puede ser negativo")
	}
	return nil
}

func HexColor(field, value string) error {
	if !hexColorRe.MatchString(value) {
		return domain.Invalid(field, "debe tener formato #RRGGBB")
	}
	return nil
}

// ClockTime valida "HH:MM".
func ClockTime(field, value string) error {
	if !clockTimeRe.MatchString(value) {
		return domain.Invalid(field, "debe tener formato HH:MM")
	}
	return nil
}

// OptionalIP valida direcciones IPv4/IPv6.
func OptionalIP(field, value string) error {
	if value == "" {
		return nil
	}
	if net.ParseIP(value) == nil {
		return domain.Invalid(field, "dirección IP inválida")
	}
	return nil
}

// DateOrder exige start <= end cuando ambas existen.
func DateOrder(field string, start, end Date) error {
	if end.Before(start) {
		return domain.Invalid(field, "no puede ser anterior a la fecha de inicio")
	}
	return nil
}

// TimeOrder igual que DateOrder para timestamps opcionales.
func TimeOrder(field string, start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return domain.Invalid(field, "no puede ser anterior al inicio")
	}
	return nil
}

// RequiredRef valida claves foráneas obligatorias.
func RequiredRef(field, id string) error {
	return Required(field, id)
}

// defaultString asigna def cuando v está vacío.
func defaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func touch(createdAt, updatedAt *time.Time, now time.Time, creating bool) {
	if creating || createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}

func setAuthor(field *string, userID string) {
	if *field == "" {
		*field = userID
	}
}

func setOptionalAuthor(field **string, userID string) {
	if (*field == nil || **field == "") && userID != "" {
		id := userID
		*field = &id
	}
}

// timePtr devuelve un puntero a una copia de t.
func timePtr(t time.Time) *time.Time { return &t }
