package script

// Option is a selectable targeting value
type Option struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Catalog lists the targeting options offered to users
type Catalog struct {
	Niches         []Option `json:"niches"`
	FollowerCounts []Option `json:"follower_counts"`
	Tones          []Option `json:"tones"`
}

var niches = []Option{
	{"Instagram Growth", "INSTA"},
	{"AI Tools", "AI"},
	{"Fitness", "FIT"},
	{"Fashion & Aesthetic", "FAS"},
	{"Glow-up / Beauty", "BEAUTY"},
	{"Dark Psychology", "DPSY"},
	{"Dating & Relationships", "LOVE"},
	{"Money Mindset", "MONEY"},
	{"Side Hustles", "HUSTLE"},
	{"Freelancing", "FREELANCE"},
	{"Personal Branding", "BRAND"},
	{"Faith & Mindfulness", "FAITH"},
	{"Content Creation Tips", "CONTENT"},
	{"Digital Products", "DIGI"},
	{"E-commerce / Dropshipping", "ECOM"},
	{"Tech Reviews / Gadgets", "TECH"},
	{"UGC Ads & Product Demos", "UGC"},
	{"Business & Marketing", "BIZ"},
	{"Personal Finance & Investing", "FIN"},
	{"Real Estate", "RE"},
	{"Health & Nutrition", "HEALTH"},
	{"Education & Study Skills", "STUDY"},
	{"Career & Job Search", "CAREER"},
	{"Coding & Developer Tips", "CODE"},
	{"SaaS & App Tutorials", "SAAS"},
	{"Parenting & Family Advice", "PARENT"},
	{"Motivation & Mindset (Scripted)", "MOTIV"},
	{"Travel Guides (Voiceover)", "TRAVEL"},
}

var followerCounts = []Option{
	{"Less than 1,000", "0-1k"},
	{"1,000 - 10,000", "1k-10k"},
	{"10,000 - 50,000", "10k-50k"},
	{"50,000 - 100,000", "50k-100k"},
	{"100,000+", "100k+"},
}

var tones = []Option{
	{"Storytelling", "STORY"},
	{"Calm & Trust-Based", "CALM"},
	{"Bold / Dramatic", "BOLD"},
	{"Emotional / Vulnerable", "EMO"},
	{"Fast-Paced Value Drop", "FAST"},
	{"Educational / Step-by-step", "EDU"},
	{"Silent Vibe (B-roll style)", "SILENT"},
}

func DefaultCatalog() Catalog {
	return Catalog{
		Niches:         niches,
		FollowerCounts: followerCounts,
		Tones:          tones,
	}
}
