package ari

import "testing"

func TestUndefinedIsZeroValue(t *testing.T) {
	var v Value
	if !v.IsUndefined() {
		t.Fatal("zero Value must be undefined")
	}
	if _, ok := v.DeclaredType(); ok {
		t.Fatal("undefined must not carry a declared type")
	}
}

func TestMoveIdempotence(t *testing.T) {
	src := IntValue(42)
	var dst Value
	Move(&dst, &src)
	if !src.IsUndefined() {
		t.Fatal("src must be undefined after move")
	}
	if n, ok := dst.AsInt(); !ok || n != 42 {
		t.Fatalf("dst = %v, %v; want 42, true", n, ok)
	}
}

func TestCopyIndependence(t *testing.T) {
	ac := NewAC(IntValue(1), IntValue(2))
	orig := SetContainer(ac)
	cp := orig.DeepCopy()

	c, _ := cp.Container()
	cac := c.(*AC)
	cac.Items[0] = IntValue(99)

	oc, _ := orig.Container()
	oac := oc.(*AC)
	if n, _ := oac.Items[0].AsInt(); n != 1 {
		t.Fatalf("mutating the copy changed the source: %d", n)
	}
}

func TestDeclaredTypeConsistency(t *testing.T) {
	v := IntValue(5)
	if err := v.SetDeclaredType(TypeInt, true); err != nil {
		t.Fatalf("INT should be consistent with an int64 primitive: %v", err)
	}
	if err := v.SetDeclaredType(TypeTextstr, true); err == nil {
		t.Fatal("TEXTSTR must be rejected on an int64 primitive")
	}
}

func TestTextValueStoresTrailingNul(t *testing.T) {
	v := TextValue("hi")
	if v.lit.text.Len() != 3 {
		t.Fatalf("text buffer length = %d; want 3 (includes nul)", v.lit.text.Len())
	}
	s, ok := v.AsText()
	if !ok || s != "hi" {
		t.Fatalf("AsText() = %q, %v; want hi, true", s, ok)
	}
}

func TestMapKeyRejectsDeclaredTypeAndUndefined(t *testing.T) {
	m := &AM{}
	typed := IntValue(1)
	_ = typed.SetDeclaredType(TypeInt, true)
	if err := m.Set(typed, NullValue()); err == nil {
		t.Fatal("declared-type key must be rejected")
	}
	if err := m.Set(Undefined(), NullValue()); err == nil {
		t.Fatal("undefined key must be rejected")
	}
	if err := m.Set(IntValue(1), NullValue()); err != nil {
		t.Fatalf("plain int key should be accepted: %v", err)
	}
}

func TestNumericPromotionCommutative(t *testing.T) {
	a := IntValue(1)
	b := UintValue(1)
	_ = b.SetDeclaredType(TypeUvast, true)
	t1, err1 := PromoteType(&a, &b)
	t2, err2 := PromoteType(&b, &a)
	if err1 != nil || err2 != nil {
		t.Fatalf("promote errors: %v, %v", err1, err2)
	}
	if t1 != t2 {
		t.Fatalf("promotion not commutative: %v vs %v", t1, t2)
	}
	if t1 != TypeVast {
		t.Fatalf("INT,UVAST should promote to VAST, got %v", t1)
	}
}

func TestEqualityRespectsPromotion(t *testing.T) {
	a := IntValue(1)
	b := FloatValue(1.0)
	_ = b.SetDeclaredType(TypeReal32, true)
	if !a.Equal(&b) {
		t.Fatal("untyped 1 should equal /REAL32/1.0")
	}
	if a.Hash() != b.Hash() {
		t.Fatal("equal values must hash equally")
	}
}

func TestHashInsensitiveToMapIterationOrder(t *testing.T) {
	m1, err := NewAM(AMEntry{Key: IntValue(1), Val: IntValue(10)}, AMEntry{Key: IntValue(2), Val: IntValue(20)})
	if err != nil {
		t.Fatal(err)
	}
	m2, err := NewAM(AMEntry{Key: IntValue(2), Val: IntValue(20)}, AMEntry{Key: IntValue(1), Val: IntValue(10)})
	if err != nil {
		t.Fatal(err)
	}
	v1 := SetContainer(m1)
	v2 := SetContainer(m2)
	if !v1.Equal(&v2) {
		t.Fatal("maps built in different insertion order should be equal once sorted")
	}
	if v1.Hash() != v2.Hash() {
		t.Fatal("equal maps must hash equally regardless of insertion order")
	}
}

func TestTotalOrderLiteralBeforeReference(t *testing.T) {
	lit := IntValue(1)
	ref := RefValue(ObjectPath{Org: TextSeg("example"), Model: TextSeg("test"), TypeSeg: IntSeg(int64(TypeCtrl)), Object: TextSeg("hi")})
	if lit.Compare(&ref) >= 0 {
		t.Fatal("literal must order before reference")
	}
}

func TestTableRowCount(t *testing.T) {
	tbl, err := NewTBL(2, []Value{IntValue(1), IntValue(2), IntValue(3), IntValue(4)})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount() = %d; want 2", tbl.RowCount())
	}
	if _, err := NewTBL(2, []Value{IntValue(1)}); err == nil {
		t.Fatal("odd item count should be rejected for 2 columns")
	}
}
