package worksheet

import (
	"errors"
	"sync"
	"testing"

	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/mathutil"
	"github.com/iwvelando/tax-calculator/pkg/validation"
)

func TestAppendDefaults(t *testing.T) {
	ws := New()
	if ws.ID == "" {
		t.Fatal("expected worksheet ID")
	}

	salaried := ws.AppendSalaried()
	freelance := ws.AppendFreelance()
	if salaried.ID == "" || freelance.ID == "" || salaried.ID == freelance.ID {
		t.Fatalf("expected distinct row IDs, got %q and %q", salaried.ID, freelance.ID)
	}
	if freelance.HoursPerDay != 8 || freelance.DaysPerYear != 220 || freelance.Year != 1900 {
		t.Errorf("unexpected freelance defaults %+v", freelance)
	}

	if ws.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", ws.Len())
	}
	if totals := ws.Totals(); totals.Total != 0 || totals.SalariedRows != 1 || totals.FreelanceRows != 1 {
		t.Errorf("unexpected totals for default rows %+v", totals)
	}
}

func TestAppendValidates(t *testing.T) {
	ws := New()
	if _, err := ws.Append(income.Row{Kind: income.KindSalaried, Year: 1800}); !errors.Is(err, validation.ErrYearOutOfRange) {
		t.Errorf("expected ErrYearOutOfRange, got %v", err)
	}
	if _, err := ws.Append(income.Row{Year: 2024}); !errors.Is(err, validation.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if ws.Len() != 0 {
		t.Errorf("rejected rows must not be appended")
	}
}

func TestRecomputeAfterEachMutation(t *testing.T) {
	ws := New()

	salaried, err := ws.Append(income.Row{Kind: income.KindSalaried, Year: 2024, MonthlySalary: 3000})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if totals := ws.Totals(); !mathutil.WithinTolerance(totals.TotalAfterTaxes, 28080, 1e-6) {
		t.Errorf("after salaried append, total after taxes = %v", totals.TotalAfterTaxes)
	}

	freelance := ws.AppendFreelance()
	freelance.HourlyRate = 50
	freelance.Year = 2024
	if _, err := ws.Update(freelance.ID, freelance); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	totals := ws.Totals()
	if !mathutil.WithinTolerance(totals.Total, 124000, 1e-6) || !mathutil.WithinTolerance(totals.TotalAfterTaxes, 94080, 1e-6) {
		t.Errorf("combined totals = %v / %v", totals.Total, totals.TotalAfterTaxes)
	}

	if err := ws.Remove(salaried.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if totals := ws.Totals(); !mathutil.WithinTolerance(totals.Total, 88000, 1e-6) {
		t.Errorf("after remove, total = %v", totals.Total)
	}
	if years := ws.TotalsByYear(); len(years) != 1 || years[0].Year != 2024 {
		t.Errorf("TotalsByYear() = %+v", years)
	}
}

func TestUpdate(t *testing.T) {
	ws := New()
	row := ws.AppendSalaried()

	if _, err := ws.Update("missing", row); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}

	changed := row
	changed.Kind = income.KindFreelance
	if _, err := ws.Update(row.ID, changed); !errors.Is(err, ErrKindChange) {
		t.Errorf("expected ErrKindChange, got %v", err)
	}

	invalid := row
	invalid.Year = 2101
	if _, err := ws.Update(row.ID, invalid); !errors.Is(err, validation.ErrYearOutOfRange) {
		t.Errorf("expected ErrYearOutOfRange, got %v", err)
	}

	// Kind may be omitted and stray freelance fields are dropped.
	updated, err := ws.Update(row.ID, income.Row{Year: 2023, MonthlySalary: 2500, HourlyRate: 40})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != row.ID || updated.Kind != income.KindSalaried || updated.HourlyRate != 0 {
		t.Errorf("unexpected updated row %+v", updated)
	}
	if stored, ok := ws.Row(row.ID); !ok || stored.MonthlySalary != 2500 || stored.Year != 2023 {
		t.Errorf("stored row = %+v, %t", stored, ok)
	}
}

func TestRemoveAtKeepsOrder(t *testing.T) {
	ws := New()
	first := ws.AppendSalaried()
	ws.AppendFreelance()
	third := ws.AppendSalaried()

	if err := ws.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}
	rows := ws.Rows()
	if len(rows) != 2 || rows[0].ID != first.ID || rows[1].ID != third.ID {
		t.Errorf("unexpected rows after RemoveAt: %+v", rows)
	}

	if err := ws.RemoveAt(5); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}
	if err := ws.Remove("missing"); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	ws := New()
	ws.AppendSalaried()

	rows := ws.Rows()
	rows[0].MonthlySalary = 1e6
	if ws.Totals().Total != 0 {
		t.Error("mutating the returned slice must not change the worksheet")
	}
}

func TestStore(t *testing.T) {
	store := NewStore()
	id := store.Create()

	err := store.Update(id, func(ws *Worksheet) error {
		ws.AppendSalaried()
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := store.Update("missing", func(*Worksheet) error { return nil }); !errors.Is(err, ErrWorksheetNotFound) {
		t.Errorf("expected ErrWorksheetNotFound, got %v", err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrWorksheetNotFound) {
		t.Errorf("expected ErrWorksheetNotFound, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestStoreConcurrentAppends(t *testing.T) {
	store := NewStore()
	id := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(id, func(ws *Worksheet) error {
				ws.AppendFreelance()
				return nil
			})
		}()
	}
	wg.Wait()

	_ = store.Update(id, func(ws *Worksheet) error {
		if ws.Len() != 50 {
			t.Errorf("expected 50 rows, got %d", ws.Len())
		}
		return nil
	})
}
