package document

type SizePreset struct {
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Category string `json:"category"`
}

var SizePresets = []SizePreset{
	{Name: "Instagram Post", Width: 1080, Height: 1080, Category: "Instagram"},
	{Name: "Instagram Story", Width: 1080, Height: 1920, Category: "Instagram"},
	{Name: "Instagram Landscape", Width: 1080, Height: 566, Category: "Instagram"},

	{Name: "Twitter Post", Width: 1200, Height: 675, Category: "Twitter"},
	{Name: "Twitter Header", Width: 1500, Height: 500, Category: "Twitter"},

	{Name: "Facebook Post", Width: 1200, Height: 630, Category: "Facebook"},
	{Name: "Facebook Cover", Width: 820, Height: 312, Category: "Facebook"},

	{Name: "LinkedIn Post", Width: 1200, Height: 627, Category: "LinkedIn"},
	{Name: "LinkedIn Banner", Width: 1584, Height: 396, Category: "LinkedIn"},

	{Name: "YouTube Thumbnail", Width: 1280, Height: 720, Category: "YouTube"},
	{Name: "YouTube Channel Art", Width: 2560, Height: 1440, Category: "YouTube"},

	{Name: "HD (720p)", Width: 1280, Height: 720, Category: "Standard"},
	{Name: "Full HD (1080p)", Width: 1920, Height: 1080, Category: "Standard"},
	{Name: "4K", Width: 3840, Height: 2160, Category: "Standard"},

	{Name: "Custom", Width: 1200, Height: 630, Category: "Custom"},
}

type GradientPreset struct {
	Name     string   `json:"name"`
	Gradient Gradient `json:"gradient"`
	Category string   `json:"category"`
}

func linear135(from, to string) Gradient {
	return Gradient{
		Type:  GradientLinear,
		Angle: 135,
		Colors: []ColorStop{
			{Color: from, Position: 0},
			{Color: to, Position: 100},
		},
	}
}

var GradientPresets = []GradientPreset{
	{Name: "Sunset", Gradient: linear135("#ff6b6b", "#feca57"), Category: "Warm"},
	{Name: "Ocean", Gradient: linear135("#0066ff", "#00ffcc"), Category: "Cool"},
	{Name: "Forest", Gradient: linear135("#134e5e", "#71b280"), Category: "Cool"},
	{
		Name: "Purple Dream",
		Gradient: Gradient{
			Type:  GradientLinear,
			Angle: 135,
			Colors: []ColorStop{
				{Color: "#a770ef", Position: 0},
				{Color: "#cf8bf3", Position: 50},
				{Color: "#fdb99b", Position: 100},
			},
		},
		Category: "Vibrant",
	},
	{Name: "Fire", Gradient: linear135("#f12711", "#f5af19"), Category: "Warm"},
	{Name: "Midnight", Gradient: linear135("#2c3e50", "#3498db"), Category: "Cool"},
	{Name: "Cotton Candy", Gradient: linear135("#fbc2eb", "#a6c1ee"), Category: "Soft"},
	{Name: "Peach", Gradient: linear135("#ed4264", "#ffedbc"), Category: "Warm"},
	{Name: "Aurora", Gradient: linear135("#00c6ff", "#0072ff"), Category: "Cool"},
	{
		Name: "Cosmic",
		Gradient: Gradient{
			Type:  GradientRadial,
			Angle: 0,
			Colors: []ColorStop{
				{Color: "#8e2de2", Position: 0},
				{Color: "#4a00e0", Position: 100},
			},
		},
		Category: "Vibrant",
	},
}
