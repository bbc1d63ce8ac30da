package config

// Limits holds the numeric bounds enforced on recipe writes and list reads.
type Limits struct {
	MinCookingTime int
	MaxCookingTime int
	MinAmount      int
	MaxAmount      int
	PageSize       int
}

func DefaultLimits() Limits {
	return Limits{
		MinCookingTime: 1,
		MaxCookingTime: 10000,
		MinAmount:      1,
		MaxAmount:      10000,
		PageSize:       6,
	}
}

// LoadLimits reads the bounds from the config map, falling back to DefaultLimits.
func LoadLimits(c map[string]string) Limits {
	d := DefaultLimits()
	return Limits{
		MinCookingTime: GetInt(c, "MIN_COOKING_TIME", d.MinCookingTime),
		MaxCookingTime: GetInt(c, "MAX_COOKING_TIME", d.MaxCookingTime),
		MinAmount:      GetInt(c, "MIN_INGREDIENT_AMOUNT", d.MinAmount),
		MaxAmount:      GetInt(c, "MAX_INGREDIENT_AMOUNT", d.MaxAmount),
		PageSize:       GetInt(c, "PAGE_SIZE", d.PageSize),
	}
}
