package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*Analytics)(nil)

// source lo implementa *Store[T].
type source interface {
	Name() string
	Rows(scope string) ([]map[string]any, error)
}

// Analytics es un repository.AnalyticsRepository que agrega sobre stores en memoria.
type Analytics struct {
	sources map[string]source
}

// NewAnalytics crea el repositorio con los stores dados, indexados por su nombre de recurso.
func NewAnalytics(stores ...source) *Analytics {
	a := &Analytics{sources: map[string]source{}}
	for _, s := range stores {
		a.sources[s.Name()] = s
	}
	return a
}

func (a *Analytics) rows(resource, scope string) ([]map[string]any, error) {
	s, ok := a.sources[resource]
	if !ok {
		return nil, fmt.Errorf("memstore: recurso %q desconocido", resource)
	}
	return s.Rows(scope)
}

func (a *Analytics) CountBy(_ context.Context, resource, column, scope string) ([]repository.GroupCount, error) {
	rows, err := a.rows(resource, scope)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, r := range rows {
		v, ok := r[column]
		if !ok {
			return nil, fmt.Errorf("memstore: columna %q: %w", column, domain.ErrInvalidInput)
		}
		counts[Text(v)]++
	}
	out := make([]repository.GroupCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, repository.GroupCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

// Aggregate imita a Postgres: SUM y COUNT sin filas dan 0, AVG sin valores da NULL.
func (a *Analytics) Aggregate(_ context.Context, resource string, aggs []repository.Aggregation) (map[string]decimal.NullDecimal, error) {
	rows, err := a.rows(resource, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.NullDecimal, len(aggs))
	for _, agg := range aggs {
		var (
			sum      = decimal.Zero
			n        int64
			distinct = map[string]struct{}{}
		)
		for _, r := range rows {
			if agg.Func == "count" {
				n++
				continue
			}
			d, ok := numeric(r[agg.Column])
			if agg.Func == "count_distinct" {
				if t := Text(r[agg.Column]); t != "" {
					distinct[t] = struct{}{}
				}
				continue
			}
			if ok {
				sum = sum.Add(d)
				n++
			}
		}
		switch agg.Func {
		case "sum":
			out[agg.Name] = decimal.NewNullDecimal(sum)
		case "avg":
			if n == 0 {
				out[agg.Name] = decimal.NullDecimal{}
				continue
			}
			out[agg.Name] = decimal.NewNullDecimal(sum.Div(decimal.NewFromInt(n)))
		case "count":
			out[agg.Name] = decimal.NewNullDecimal(decimal.NewFromInt(n))
		case "count_distinct":
			out[agg.Name] = decimal.NewNullDecimal(decimal.NewFromInt(int64(len(distinct))))
		default:
			return nil, fmt.Errorf("memstore: función %q no soportada", agg.Func)
		}
	}
	return out, nil
}

func (a *Analytics) Distinct(_ context.Context, resource, column, scope string) ([]string, error) {
	rows, err := a.rows(resource, scope)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range rows {
		t := Text(r[column])
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func numeric(v any) (decimal.Decimal, bool) {
	t := Text(v)
	if t == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ── Transacciones ────────────────────────────────────────────────────────────

var _ repository.KnowledgeTxRunner = (*KnowledgeTx)(nil)

// KnowledgeTx ejecuta fn sobre los mismos stores y restaura su contenido si fn falla.
type KnowledgeTx struct {
	Articles *Store[entity.KnowledgeArticle]
	Versions *Store[entity.KnowledgeVersion]
	Feedback *Store[entity.KnowledgeFeedback]
}

func (t *KnowledgeTx) RunKnowledge(_ context.Context, fn func(tx repository.KnowledgeTx) error) error {
	restore := []func(){t.Articles.snapshot(), t.Versions.snapshot(), t.Feedback.snapshot()}
	if err := fn(repository.KnowledgeTx{Articles: t.Articles, Versions: t.Versions, Feedback: t.Feedback}); err != nil {
		for _, r := range restore {
			r()
		}
		return err
	}
	return nil
}

var _ repository.ChatTxRunner = (*ChatTx)(nil)

// ChatTx ejecuta fn sobre Messages y restaura su contenido si fn falla.
type ChatTx struct {
	Messages *Store[entity.ChatbotMessage]
}

func (t *ChatTx) RunChat(_ context.Context, fn func(messages repository.Store[entity.ChatbotMessage]) error) error {
	restore := t.Messages.snapshot()
	if err := fn(t.Messages); err != nil {
		restore()
		return err
	}
	return nil
}

// ── Módulos ──────────────────────────────────────────────────────────────────

var _ repository.ModuleRepository = (*Modules)(nil)

// Modules repository.ModuleRepository en memoria; los módulos sin entrada están activos.
type Modules struct {
	Enabled map[string]bool
	Err     error
}

func NewModules() *Modules { return &Modules{Enabled: map[string]bool{}} }

func (m *Modules) List(context.Context) ([]repository.Module, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]repository.Module, 0, len(m.Enabled))
	for name, on := range m.Enabled {
		out = append(out, repository.Module{Name: name, Enabled: on})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Modules) IsEnabled(_ context.Context, name string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	on, ok := m.Enabled[name]
	return !ok || on, nil
}

func (m *Modules) SetEnabled(_ context.Context, name string, enabled bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.Enabled[name] = enabled
	return nil
}
