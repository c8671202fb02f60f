package mathx

import "testing"

func TestClampMinMax(t *testing.T) {
	if Clamp(5000, 0, 4095) != 4095 || Clamp(-3, 0, 10) != 0 || Clamp(7, 10, 0) != 7 {
		t.Fatal("Clamp")
	}
	if Min(3, 4) != 3 || Max(3, 4) != 4 {
		t.Fatal("Min/Max")
	}
}

func TestAbsDiffUnsigned(t *testing.T) {
	if AbsDiff(uint16(0), uint16(2048)) != 2048 {
		t.Fatal("underflow on unsigned")
	}
	if AbsDiff(uint16(4095), uint16(2048)) != 2047 {
		t.Fatal("AbsDiff")
	}
}

func TestMulDivTruncates(t *testing.T) {
	// 1748*4095/2048 = 3495.29...
	if got := MulDiv[uint32](1748, 4095, 2048); got != 3495 {
		t.Fatalf("got %d", got)
	}
	// Would overflow a 16-bit intermediate.
	if got := MulDiv[uint16](4095, 120, 4095); got != 120 {
		t.Fatalf("got %d", got)
	}
	if MulDiv[uint16](1, 2, 0) != 0 {
		t.Fatal("zero divisor")
	}
}

func TestMapU16(t *testing.T) {
	for _, tc := range []struct {
		x, want uint16
	}{
		{0, 0},
		{2048, 60}, // 2048*120/4095 = 60.01
		{4095, 120},
		{5000, 120},
	} {
		if got := MapU16(tc.x, 0, 4095, 0, 120); got != tc.want {
			t.Errorf("MapU16(%d) = %d, want %d", tc.x, got, tc.want)
		}
	}
	if MapU16(10, 5, 5, 7, 9) != 7 {
		t.Fatal("degenerate input range")
	}
}
