package models

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// Boolean columns with a DB default of TRUE silently turn false into true on
// Create, because GORM omits zero values that have a default.
func TestBooleanColumnsHaveNoTrueDefault(t *testing.T) {
	for _, model := range []any{&TierList{}, &TierListEntry{}, &MatchParticipant{}, &User{}} {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("parse %T: %v", model, err)
		}
		for _, f := range s.Fields {
			if f.DataType == schema.Bool && f.HasDefaultValue && f.DefaultValue == "true" {
				t.Errorf("%s.%s defaults to true", s.Name, f.Name)
			}
		}
	}
}

func TestTierListIsActiveWrittenExplicitly(t *testing.T) {
	s, err := schema.Parse(&TierList{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatal(err)
	}
	f := s.LookUpField("IsActive")
	if f == nil {
		t.Fatal("IsActive field missing")
	}
	if f.HasDefaultValue {
		t.Errorf("IsActive has default %q, want none", f.DefaultValue)
	}
}
