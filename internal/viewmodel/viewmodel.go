package viewmodel

// VariantOption is a mechanic choice for the practice form.
type VariantOption struct {
	Value    string
	Title    string
	Selected bool
}

// HomePage holds data for the landing page.
type HomePage struct {
	Title        string
	DayKey       string
	TodayTitle   string
	TodayHint    string
	Countdown    string
	NextPuzzleMs int64
	Variants     []VariantOption
}

// GamePage holds data for the main game page template.
type GamePage struct {
	Title        string
	GameID       string
	IsOwner      bool
	CanvasWidth  int
	CanvasHeight int
	Turn         TurnFragment
	Scores       ScoresFragment
	Variants     []VariantOption
}

// TurnFragment holds data for the canvas header and controls.
type TurnFragment struct {
	GameID       string
	Mode         string
	Status       string
	Phase        string
	VariantTitle string
	VariantHint  string
	ShapeName    string
	ShapeNumber  int
	TotalShapes  int
	Attempt      int
	MaxAttempts  int
	Message      string
	HasResult    bool
	LeftPct      string
	RightPct     string
	Score        string
	Perfect      bool
	CanContinue  bool
	ContinueText string
	CanShuffle   bool
	Spinning     bool
	Version      int
	NextPuzzleMs int64
	Countdown    string
}

// ScoreEntry holds one shape's scores for rendering.
type ScoreEntry struct {
	Name    string
	Number  int
	Scores  []string
	Average string
	Perfect bool
}

// ScoresFragment holds data for the scores panel.
type ScoresFragment struct {
	GameID     string
	Mode       string
	Status     string
	Shapes     []ScoreEntry
	DayAverage string
	DayTotal   string
	Cuts       int
	Perfects   int
}
