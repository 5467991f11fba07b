package board

import "testing"

func benchPerft(b *testing.B, fen string, depth int) {
	p, err := PositionFromFEN(fen)
	if err != nil {
		b.Fatalf("PositionFromFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Perft(p, depth)
	}
}

func BenchmarkPerftInitialDepth4(b *testing.B) {
	benchPerft(b, StartFEN, 4)
}

func BenchmarkPerftKiwipeteDepth3(b *testing.B) {
	benchPerft(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3)
}

func benchLegalMoves(b *testing.B, fen string) {
	p, err := PositionFromFEN(fen)
	if err != nil {
		b.Fatalf("PositionFromFEN: %v", err)
	}
	buf := make([]Move, 0, MaxMoves)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = p.LegalMoves(buf[:0])
	}
}

func BenchmarkLegalMovesInitial(b *testing.B) {
	benchLegalMoves(b, StartFEN)
}

func BenchmarkLegalMovesKiwipete(b *testing.B) {
	benchLegalMoves(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
}

func BenchmarkLegalMovesMiddlegame(b *testing.B) {
	benchLegalMoves(b, "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10")
}
