package arithcode

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestAdaptiveModel(t *testing.T) {
	model := NewAdaptiveModel(4)

	if model.TotalFreq() != 4 {
		t.Fatalf("Expected initial total 4, got %d", model.TotalFreq())
	}
	for i := 0; i < 4; i++ {
		if model.Count(i) != 1 {
			t.Errorf("Symbol %d: expected initial count 1, got %d", i, model.Count(i))
		}
	}

	model.Update(2)
	model.Update(2)
	model.Update(2)

	if model.TotalFreq() != 7 {
		t.Errorf("Expected total 7, got %d", model.TotalFreq())
	}
	if low, high := model.Freq(2); low != 2 || high != 6 {
		t.Errorf("Freq(2) = [%d, %d), expected [2, 6)", low, high)
	}
	if low, high := model.Freq(3); low != 6 || high != 7 {
		t.Errorf("Freq(3) = [%d, %d), expected [6, 7)", low, high)
	}

	tests := []struct {
		cumFreq  uint64
		expected int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{5, 2},
		{6, 3},
		{1000, 3}, // out of range clamps to the last symbol
	}
	for _, tt := range tests {
		if got := model.Find(tt.cumFreq); got != tt.expected {
			t.Errorf("Find(%d) = %d, expected %d", tt.cumFreq, got, tt.expected)
		}
	}

	model.Reset()
	if model.TotalFreq() != 4 {
		t.Errorf("Expected total 4 after Reset, got %d", model.TotalFreq())
	}
}

func TestAdaptiveModelRescale(t *testing.T) {
	if testing.Short() {
		t.Skip("long running")
	}

	model := NewAdaptiveModel(3)
	for i := uint64(0); i < MaxTotal+10; i++ {
		model.Update(0)
	}

	if model.TotalFreq() > MaxTotal {
		t.Errorf("Total %d exceeds MaxTotal %d", model.TotalFreq(), MaxTotal)
	}
	for i := 0; i < 3; i++ {
		if model.Count(i) == 0 {
			t.Errorf("Symbol %d has zero count after rescale", i)
		}
	}
}

func TestKnownOutput(t *testing.T) {
	tests := []struct {
		wire     Wire
		expected []byte
	}{
		{PackedBits, []byte{0xA0}},
		{ByteBits, []byte{0xFF, 0x00, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.wire.String(), func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewEncoderWire(&buf, tt.wire)
			if err := enc.Encode(1, NewAdaptiveModel(2)); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if err := enc.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			if !bytes.Equal(buf.Bytes(), tt.expected) {
				t.Errorf("Output %x, expected %x", buf.Bytes(), tt.expected)
			}

			dec, err := NewDecoderWire(&buf, tt.wire)
			if err != nil {
				t.Fatalf("NewDecoder failed: %v", err)
			}
			symbol, err := dec.Decode(NewAdaptiveModel(2))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if symbol != 1 {
				t.Errorf("Decoded %d, expected 1", symbol)
			}
		})
	}
}

func TestRoundtripAdaptive(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))

	for _, wire := range []Wire{PackedBits, ByteBits} {
		for trial := 0; trial < 100; trial++ {
			numSymbols := 2 + rng.Intn(50)
			dataLen := rng.Intn(500)

			// Skewed data stresses the underflow path.
			favourite := rng.Intn(numSymbols)
			data := make([]int, dataLen)
			for i := range data {
				if rng.Intn(10) < 8 {
					data[i] = favourite
				} else {
					data[i] = rng.Intn(numSymbols)
				}
			}

			got := roundtrip(t, data, wire, func() Model { return NewAdaptiveModel(numSymbols) })
			assertSymbols(t, data, got)
		}
	}
}

func TestRoundtripInterleavedModels(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	type coded struct {
		model  int
		symbol int
	}
	sizes := []int{37, 4, 8, 2, 2}

	seq := make([]coded, 5000)
	for i := range seq {
		m := rng.Intn(len(sizes))
		seq[i] = coded{model: m, symbol: rng.Intn(sizes[m])}
	}

	newModels := func() []*AdaptiveModel {
		models := make([]*AdaptiveModel, len(sizes))
		for i, n := range sizes {
			models[i] = NewAdaptiveModel(n)
		}
		return models
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	encModels := newModels()
	for _, c := range seq {
		if err := enc.Encode(c.symbol, encModels[c.model]); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	dec, err := NewDecoder(&buf)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	decModels := newModels()
	for i, c := range seq {
		symbol, err := dec.Decode(decModels[c.model])
		if err != nil {
			t.Fatalf("Decode at position %d failed: %v", i, err)
		}
		if symbol != c.symbol {
			t.Fatalf("Position %d: expected %d, got %d", i, c.symbol, symbol)
		}
	}

	for i := range sizes {
		if encModels[i].TotalFreq() != decModels[i].TotalFreq() {
			t.Errorf("Model %d desynchronized: %d != %d", i, encModels[i].TotalFreq(), decModels[i].TotalFreq())
		}
	}
}

func TestByteBitsLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]int, 200)
	for i := range data {
		data[i] = rng.Intn(10)
	}

	packed := encodeAll(t, data, PackedBits, NewAdaptiveModel(10))
	units := encodeAll(t, data, ByteBits, NewAdaptiveModel(10))

	for i, b := range units {
		if b != 0x00 && b != 0xFF {
			t.Fatalf("Byte %d is %#x, expected 0x00 or 0xFF", i, b)
		}
	}
	if (len(units)+7)/8 != len(packed) {
		t.Errorf("Unit output %d bytes does not match packed output %d bytes", len(units), len(packed))
	}
}

func TestTruncatedInputPads(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	data := make([]int, 300)
	for i := range data {
		data[i] = rng.Intn(20)
	}

	full := encodeAll(t, data, PackedBits, NewAdaptiveModel(20))
	for _, cut := range []int{0, 1, len(full) / 2, len(full) - 1} {
		dec, err := NewDecoder(bytes.NewReader(full[:cut]))
		if err != nil {
			t.Fatalf("NewDecoder on %d bytes failed: %v", cut, err)
		}
		model := NewAdaptiveModel(20)
		for i := range data {
			symbol, err := dec.Decode(model)
			if err != nil {
				t.Fatalf("Decode at %d of truncated input failed: %v", i, err)
			}
			if symbol < 0 || symbol >= 20 {
				t.Fatalf("Decoded out of range symbol %d", symbol)
			}
		}
	}
}

func TestCorruptInputDoesNotPanic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	garbage := make([]byte, 64)
	rng.Read(garbage)

	for _, wire := range []Wire{PackedBits, ByteBits} {
		dec, err := NewDecoderWire(bytes.NewReader(garbage), wire)
		if err != nil {
			t.Fatalf("NewDecoder failed: %v", err)
		}
		model := NewAdaptiveModel(37)
		for i := 0; i < 500; i++ {
			if _, err := dec.Decode(model); err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
		}
	}
}

func TestEmptyData(t *testing.T) {
	out := encodeAll(t, nil, PackedBits, NewAdaptiveModel(256))

	// Should produce some output even for empty data (the final state)
	if len(out) == 0 {
		t.Error("Expected non-zero output for empty data")
	}
}

func TestPackFixed(t *testing.T) {
	values := []int{0, 63, 1, 62, 37, 5, 40}
	packed := PackFixed(values, 6)
	if len(packed) != (len(values)*6+7)/8 {
		t.Fatalf("Packed %d bytes, expected %d", len(packed), (len(values)*6+7)/8)
	}

	got, err := UnpackFixed(packed, len(values), 6)
	if err != nil {
		t.Fatalf("UnpackFixed failed: %v", err)
	}
	assertSymbols(t, values, got)

	if _, err := UnpackFixed(packed[:2], len(values), 6); err == nil {
		t.Error("Expected error for short input")
	}

	// Known layout: 0b000001 0b000010 -> 0000 0100 0010 0000
	if got := PackFixed([]int{1, 2}, 6); !bytes.Equal(got, []byte{0x04, 0x20}) {
		t.Errorf("PackFixed = %x, expected 0420", got)
	}
}

func roundtrip(t *testing.T, data []int, wire Wire, newModel func() Model) []int {
	t.Helper()

	var buf bytes.Buffer
	enc := NewEncoderWire(&buf, wire)
	model := newModel()
	for _, symbol := range data {
		if err := enc.Encode(symbol, model); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	dec, err := NewDecoderWire(&buf, wire)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	model = newModel()
	got := make([]int, len(data))
	for i := range data {
		symbol, err := dec.Decode(model)
		if err != nil {
			t.Fatalf("Decode at position %d failed: %v", i, err)
		}
		got[i] = symbol
	}
	return got
}

func encodeAll(t *testing.T, data []int, wire Wire, model Model) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := NewEncoderWire(&buf, wire)
	for _, symbol := range data {
		if err := enc.Encode(symbol, model); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return buf.Bytes()
}

func assertSymbols(t *testing.T, expected, got []int) {
	t.Helper()

	if len(expected) != len(got) {
		t.Fatalf("Length mismatch: expected %d, got %d", len(expected), len(got))
	}
	for i := range expected {
		if expected[i] != got[i] {
			t.Fatalf("Position %d: expected %d, got %d", i, expected[i], got[i])
		}
	}
}
