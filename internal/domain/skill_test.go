package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSkillApplication_IsActive(t *testing.T) {
	t.Parallel()

	t.Run("nil EndedAt", func(t *testing.T) {
		t.Parallel()
		a := &SkillApplication{EndedAt: nil}
		if !a.IsActive() {
			t.Error("expected active")
		}
	})

	t.Run("non-nil EndedAt", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		a := &SkillApplication{EndedAt: &now}
		if a.IsActive() {
			t.Error("expected not active")
		}
	})
}

func TestSkillApplication_Key(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	skillID := uuid.New()
	customerID := uuid.New()

	a := &SkillApplication{UserID: userID, SkillID: skillID, CustomerID: customerID}
	got := a.Key()
	want := ApplicationKey{UserID: userID, SkillID: skillID, CustomerID: customerID}
	if got != want {
		t.Errorf("Key() = %+v, want %+v", got, want)
	}
}
