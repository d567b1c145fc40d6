package mediate

import (
	"testing"
)

type settleCmd struct{}

type settleBatchCmd struct{}

type refundCmd struct{}

func profileOf[C any]() Profile {
	return Profile{key: KeyOf[C](), kind: KindCommand}
}

func TestForCommand(t *testing.T) {
	p := profileOf[settleCmd]()

	t.Run("matches the exact command type", func(t *testing.T) {
		if !ForCommand[settleCmd]().Match(p) {
			t.Error("expected match")
		}
	})

	t.Run("fails on a different command type", func(t *testing.T) {
		if ForCommand[refundCmd]().Match(p) {
			t.Error("expected no match")
		}
	})
}

func TestAllCommands(t *testing.T) {
	if !AllCommands().Match(profileOf[settleCmd]()) {
		t.Error("expected match")
	}
	if !AllCommands().Match(profileOf[refundCmd]()) {
		t.Error("expected match")
	}
}

func TestNamed(t *testing.T) {
	p := profileOf[settleCmd]()

	t.Run("matches the bare type name", func(t *testing.T) {
		if !Named("settleCmd").Match(p) {
			t.Error("expected match")
		}
	})

	t.Run("fails on a different name", func(t *testing.T) {
		if Named("refundCmd").Match(p) {
			t.Error("expected no match")
		}
	})

	t.Run("does not match package-qualified names", func(t *testing.T) {
		if Named("mediate.settleCmd").Match(p) {
			t.Error("expected no match")
		}
	})
}

func TestNamePrefix(t *testing.T) {
	t.Run("matches a command family by prefix", func(t *testing.T) {
		d := NamePrefix("settle")
		if !d.Match(profileOf[settleCmd]()) {
			t.Error("expected match")
		}
		if !d.Match(profileOf[settleBatchCmd]()) {
			t.Error("expected match")
		}
	})

	t.Run("fails outside the family", func(t *testing.T) {
		if NamePrefix("settle").Match(profileOf[refundCmd]()) {
			t.Error("expected no match")
		}
	})

	t.Run("empty prefix matches everything (vacuous truth)", func(t *testing.T) {
		if !NamePrefix("").Match(profileOf[refundCmd]()) {
			t.Error("expected match for empty prefix")
		}
	})
}

func TestAnd(t *testing.T) {
	p := profileOf[settleCmd]()

	t.Run("matches when all scopes match", func(t *testing.T) {
		d := And(AllCommands(), NamePrefix("settle"))
		if !d.Match(p) {
			t.Error("expected match")
		}
	})

	t.Run("fails when any scope fails", func(t *testing.T) {
		d := And(AllCommands(), Named("refundCmd"))
		if d.Match(p) {
			t.Error("expected no match")
		}
	})

	t.Run("matches with no scopes (vacuous truth)", func(t *testing.T) {
		if !And().Match(p) {
			t.Error("expected match for empty scope list")
		}
	})
}

func TestOr(t *testing.T) {
	p := profileOf[settleCmd]()

	t.Run("matches when any scope matches", func(t *testing.T) {
		d := Or(Named("refundCmd"), Named("settleCmd"))
		if !d.Match(p) {
			t.Error("expected match")
		}
	})

	t.Run("fails when no scope matches", func(t *testing.T) {
		d := Or(Named("refundCmd"), NamePrefix("charge"))
		if d.Match(p) {
			t.Error("expected no match")
		}
	})

	t.Run("fails with no scopes", func(t *testing.T) {
		if Or().Match(p) {
			t.Error("expected no match for empty scope list")
		}
	})
}

func TestNot(t *testing.T) {
	p := profileOf[settleCmd]()

	if Not(AllCommands()).Match(p) {
		t.Error("expected no match")
	}
	if !Not(Named("refundCmd")).Match(p) {
		t.Error("expected match")
	}
}

func TestScopeFunc(t *testing.T) {
	d := ScopeFunc(func(p Profile) bool {
		return p.Kind() == KindCommand && p.Name() == "settleCmd"
	})

	if !d.Match(profileOf[settleCmd]()) {
		t.Error("expected match")
	}
	if d.Match(profileOf[refundCmd]()) {
		t.Error("expected no match")
	}
}
