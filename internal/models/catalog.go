package models

// DefaultAchievements returns the canonical achievement catalog, all locked.
// Persisted unlock flags are merged over this list at load time; persisted
// entries that no longer exist in the catalog are dropped.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: "first_game", Title: "First Game", Description: "Answer your first question correctly"},
		{ID: "high_scorer", Title: "High Scorer", Description: "Score 100 points in a single game"},
		{ID: "perfect_game", Title: "Perfect Game", Description: "Complete a game without losing any lives"},
	}
}

// DefaultShopItems returns the canonical shop catalog, all unpurchased
func DefaultShopItems() []ShopItem {
	return []ShopItem{
		{ID: "extra_life", Name: "Extra Life", Price: 200, Category: CategoryPowerup},
		{ID: "double_points", Name: "Double Points", Price: 350, Category: CategoryPowerup},
		{ID: "time_freeze", Name: "Time Freeze", Price: 300, Category: CategoryPowerup},
		{ID: "ocean_theme", Name: "Ocean Theme", Price: 500, Category: CategoryCosmetic},
		{ID: "jungle_theme", Name: "Jungle Theme", Price: 500, Category: CategoryCosmetic},
		{ID: "golden_avatar", Name: "Golden Avatar", Price: 750, Category: CategoryCosmetic},
		{ID: "bonus_round", Name: "Bonus Round", Price: 400, Category: CategoryBonus},
		{ID: "mystery_box", Name: "Mystery Box", Price: 250, Category: CategoryBonus},
	}
}

// MergeAchievements applies persisted unlock flags onto the canonical catalog.
// Catalog entries with no persisted counterpart stay locked.
func MergeAchievements(catalog []Achievement, persisted []AchievementFlag) []Achievement {
	unlocked := make(map[string]bool, len(persisted))
	for _, p := range persisted {
		if p.Unlocked {
			unlocked[p.ID] = true
		}
	}
	merged := make([]Achievement, len(catalog))
	copy(merged, catalog)
	for i := range merged {
		if unlocked[merged[i].ID] {
			merged[i].Unlocked = true
		}
	}
	return merged
}

// MergeShopItems applies persisted purchase flags onto the canonical catalog.
// Catalog entries with no persisted counterpart stay unpurchased.
func MergeShopItems(catalog []ShopItem, persisted []ShopItemFlag) []ShopItem {
	purchased := make(map[string]bool, len(persisted))
	for _, p := range persisted {
		if p.Purchased {
			purchased[p.ID] = true
		}
	}
	merged := make([]ShopItem, len(catalog))
	copy(merged, catalog)
	for i := range merged {
		if purchased[merged[i].ID] {
			merged[i].Purchased = true
		}
	}
	return merged
}

// AchievementFlag is the durable representation of an achievement: only the
// id and unlock flag are persisted, titles live in the catalog.
type AchievementFlag struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
}

// ShopItemFlag is the durable representation of a shop item
type ShopItemFlag struct {
	ID        string `json:"id"`
	Purchased bool   `json:"purchased"`
}

// AchievementFlags extracts the durable flags from a full achievement list
func AchievementFlags(achievements []Achievement) []AchievementFlag {
	flags := make([]AchievementFlag, len(achievements))
	for i, a := range achievements {
		flags[i] = AchievementFlag{ID: a.ID, Unlocked: a.Unlocked}
	}
	return flags
}

// ShopItemFlags extracts the durable flags from a full shop item list
func ShopItemFlags(items []ShopItem) []ShopItemFlag {
	flags := make([]ShopItemFlag, len(items))
	for i, item := range items {
		flags[i] = ShopItemFlag{ID: item.ID, Purchased: item.Purchased}
	}
	return flags
}
