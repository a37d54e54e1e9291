package domain

import (
	"regexp"
	"strings"
)

// GeneralCategory is the sentinel returned when nothing in the taxonomy
// matches the request details.
const GeneralCategory = "General"

// ServiceCategories is the fixed taxonomy. Declaration order matters: ties in
// Classify resolve to the first declared category.
var ServiceCategories = []string{
	"Wedding Planning",
	"Birthday Party Planning",
	"Baby Shower Planning",
	"Engagement Party Planning",
	"Bridal Shower Planning",
	"Anniversary Party Planning",
	"Corporate Event Planning",
	"Product Launch Events",
	"Gala Dinners",
	"Award Ceremonies",
	"Charity Fundraisers",
	"Graduation Parties",
	"Farewell Parties",
	"Housewarming Parties",
	"Holiday Parties",
	"Religious Ceremonies",
	"Festivals and Fairs",
	"Bachelor / Bachelorette Parties",
	"Sweet 16 / Quinceañera",
	"Retirement Parties",
	"Cultural Events",
	"Full-Service Catering",
	"Buffet Catering",
	"Cocktail Reception Catering",
	"Dessert Table Catering",
	"Live Food Stations",
	"Food Truck Catering",
	"Cake and Bakery Services",
	"Bartending Services",
	"Beverage Stations",
	"Live Bands",
	"DJs",
	"Stand-up Comedians",
	"Emcees / Hosts",
	"Magicians",
	"Dancers",
	"Fire Shows",
	"Kids’ Entertainment",
	"Celebrity Appearances",
	"Motivational Speakers",
	"Wedding Decor",
	"Themed Birthday Decor",
	"Stage Decoration",
	"Floral Arrangements",
	"Balloon Decoration",
	"Lighting and Effects",
	"Photo Booth Setup",
	"Table Settings and Centerpieces",
	"Backdrop Design",
	"Lounge Furniture Rentals",
	"Event Photography",
	"Wedding Films",
	"Live Streaming Services",
	"Drone Videography",
	"Instant Photo Printing",
	"360-Degree Photo Booths",
	"Event Rentals",
	"Sound and Lighting Equipment Rental",
	"Stage Setup and AV Management",
	"Transportation",
	"Security Services",
	"Valet Parking",
	"Cleaning Services",
	"Power Backup",
	"Permit and License Handling",
	"Makeup Artists",
	"Hair Stylists",
	"Mehndi / Henna Artists",
	"Styling Services",
	"Personal Shoppers",
	"Custom Invitation Cards",
	"Return Gifts",
	"Event Souvenirs",
	"Wedding Favors",
	"Digital Invitations",
}

// words of at least 3 lowercase alphanumerics, stopwords fall out naturally
var tokenPattern = regexp.MustCompile(`\b[a-z0-9]{3,}\b`)

// categoryTokens holds the deduplicated keyword set per category,
// precomputed once from the category name itself
var categoryTokens = buildCategoryTokens()

func buildCategoryTokens() [][]string {
	tokens := make([][]string, len(ServiceCategories))
	for i, category := range ServiceCategories {
		words := tokenPattern.FindAllString(strings.ToLower(category), -1)
		seen := make(map[string]bool, len(words))
		var keywords []string
		for _, w := range words {
			if !seen[w] {
				seen[w] = true
				keywords = append(keywords, w)
			}
		}
		tokens[i] = keywords
	}
	return tokens
}

// Classify maps free text to the best-matching service category. Each
// category token found as a substring of the lowered input scores one point;
// the strictly highest score wins and ties keep the earlier category. Empty
// input or a zero score lands on General. Same input, same output, always.
func Classify(text string) string {
	if text == "" {
		return GeneralCategory
	}

	lower := strings.ToLower(text)
	best := GeneralCategory
	highest := 0

	for i, category := range ServiceCategories {
		score := 0
		for _, keyword := range categoryTokens[i] {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		if score > highest {
			highest = score
			best = category
		}
	}
	return best
}
