package service

import (
	"context"
	"testing"
)

func TestLevelConfigUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewLevelConfigService(f.levels)
	ctx := context.Background()

	cfg, err := svc.Update(ctx, 1, 50, true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cfg.Level != 1 || cfg.Percentage != 50 || !cfg.IsActive {
		t.Fatalf("cfg=%+v", cfg)
	}

	// Upsert overwrites the existing row instead of duplicating it.
	if _, err := svc.Update(ctx, 1, 40, false); err != nil {
		t.Fatalf("second update: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Percentage != 40 || list[0].IsActive {
		t.Fatalf("list=%+v", list)
	}
}

func TestLevelConfigValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewLevelConfigService(f.levels)
	ctx := context.Background()

	cases := []struct {
		name  string
		level int
		pct   float64
	}{
		{"level below range", 0, 10},
		{"level above range", 9, 10},
		{"negative percentage", 1, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(ctx, tc.level, tc.pct, true); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
