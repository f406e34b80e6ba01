package language

import "testing"

func TestByCode(t *testing.T) {
	l, ok := ByCode("es")
	if !ok {
		t.Fatal("expected Spanish to be supported")
	}
	if l.Name != "Spanish" || l.Voice == "" {
		t.Errorf("unexpected entry: %+v", l)
	}

	if _, ok := ByCode("xx"); ok {
		t.Error("expected unknown code to be rejected")
	}
}

func TestChineseVariantsAreDistinct(t *testing.T) {
	cn, ok := ByCode("zh-CN")
	if !ok {
		t.Fatal("zh-CN missing")
	}
	tw, ok := ByCode("zh-TW")
	if !ok {
		t.Fatal("zh-TW missing")
	}
	if cn.Name == tw.Name {
		t.Error("variants should have distinct display names")
	}
}

func TestEveryEntryIsComplete(t *testing.T) {
	for _, l := range Supported {
		if l.Code == "" || l.Name == "" || l.Voice == "" {
			t.Errorf("incomplete entry: %+v", l)
		}
		if !IsSupported(l.Code) {
			t.Errorf("ByCode cannot find %q", l.Code)
		}
	}
}
