package story

// PredefinedTags is the curated set of story categorization tags offered
// by the editor's metadata form. Authors can add free-form tags as well.
var PredefinedTags = []string{
	"powers simple", "simple", "powers", "comfy", "humorous",
	"choose multiple", "mundane", "dark", "drawbacks", "low-level", "companions",
	"fantasy", "worldbuilding", "extensive", "magic", "sci-fi", "themed", "meta",
	"gear", "combat", "survival", "gift of faves", "media", "dragons", "multiplayer",
	"food & drink", "political", "isekai", "unique", "apocalyptic", "family", "food",
	"realistic", "medieval", "farming", "domain", "horror", "artistic", "rulebreaking",
	"kingdom-building", "long", "prison", "pet", "franchise", "rng", "crime",
	"science-fantasy", "future", "western", "zombies", "god-like", "pocket dimension",
	"time", "trapped", "dragon", "adventure", "school", "legend", "history", "non-fantasy",
	"seasonal", "abstract", "werewolf", "pets", "planeswalking", "anime", "character",
	"superheroes", "modern", "weapon", "runes", "design", "time travel", "mounts", "roll",
	"home", "military", "cute", "steampunk", "base-building",
}
