package tetris

// Linear congruential step used to pick the next piece.
const (
	GeneratorSeed = 20170813

	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 2147483647
)

func pieceHash(id int) uint64 {
	seed := uint64(GeneratorSeed+int64(id)) % lcgModulus
	return (lcgMultiplier*seed + lcgIncrement) % lcgModulus
}

// NextPiece deterministically selects a piece from id alone and spawns it at
// its kind's column on row 0.
func NextPiece(id int) Tetromino {
	kind := Kind(pieceHash(id) % generatedKinds)
	return newTetromino(id, kind)
}

// NullPiece is the terminal piece assigned when a game ends. It keeps id so
// renderers can still correlate it with what they drew last.
func NullPiece(id int) Tetromino {
	return newTetromino(id, Null)
}

func newTetromino(id int, kind Kind) Tetromino {
	return Tetromino{
		ID:    id,
		Kind:  kind,
		Shape: kind.Shape(),
		Color: kind.Color(),
		X:     kinds[kind].spawnX * BlockWidth,
		Y:     0,
	}
}
