package profile

// Session holds the free-text answers collected by the terminal session flow.
// Field values are taken verbatim from the user after trimming whitespace.
type Session struct {
	Age        string
	Sex        string
	Weight     string
	Height     string
	ShoeSize   string
	FootShape  string
	Arch       string
	Injury     string
	Activity   string
	Frequency  string
	Experience string
	Terrain    string
	Waterproof string
	Priority   string
}

// SessionField describes one session prompt and where its answer is stored.
type SessionField struct {
	Label   string
	Options []string
	Bind    func(*Session) *string
}

// SessionFields lists the session prompts in the order they are asked.
var SessionFields = []SessionField{
	{Label: "AGE", Bind: func(s *Session) *string { return &s.Age }},
	{Label: "SEX (Man/Woman/Unisex/Prefer Not to Share)", Bind: func(s *Session) *string { return &s.Sex }},
	{Label: "WEIGHT (lbs)", Bind: func(s *Session) *string { return &s.Weight }},
	{Label: "HEIGHT", Bind: func(s *Session) *string { return &s.Height }},
	{Label: "SHOE SIZE", Bind: func(s *Session) *string { return &s.ShoeSize }},
	{Label: "FOOT WIDTH (Wide/Narrow/Standard)", Bind: func(s *Session) *string { return &s.FootShape }},
	{Label: "ARCH TYPE (High/Neutral/Flat/Don't know)", Bind: func(s *Session) *string { return &s.Arch }},
	{Label: "CURRENT INJURY/PAIN (None/Knees/Shins/Heels/Other)", Bind: func(s *Session) *string { return &s.Injury }},
	{Label: "SPECIFIC ACTIVITY", Options: SessionActivities, Bind: func(s *Session) *string { return &s.Activity }},
	{Label: "FREQUENCY (How often will you use this?)", Bind: func(s *Session) *string { return &s.Frequency }},
	{Label: "EXPERIENCE LEVEL (Beginner/Experienced/Expert)", Bind: func(s *Session) *string { return &s.Experience }},
	{Label: "TERRAIN (Road/Trail/Gym/Mud/Snow/Rocky)", Bind: func(s *Session) *string { return &s.Terrain }},
	{Label: "WATERPROOF NEEDED? (Yes/No)", Bind: func(s *Session) *string { return &s.Waterproof }},
	{Label: "WHAT MATTERS MOST? (Cost/Comfort/Durability/Look/Brand)", Bind: func(s *Session) *string { return &s.Priority }},
}
