package recommendations

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/angelmondragon/brewlytics/pkg/db/models"
)

const (
	roastMatchBonus  = 20
	flavorMatchBonus = 10
	newOriginBonus   = 15
	featuredBonus    = 25
	elevationBonus   = 5

	highElevationMeters = 1500
)

var elevationNumber = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d+`)

// beanScorer holds the per-customer inputs of the bean rules.
type beanScorer struct {
	favoriteRoast   string
	flavors         []string
	purchasedOrigin map[string]struct{}
}

func newBeanScorer(profile *models.TasteProfile, origins []string) beanScorer {
	s := beanScorer{purchasedOrigin: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		s.purchasedOrigin[normalize(o)] = struct{}{}
	}
	if profile == nil {
		return s
	}
	s.favoriteRoast = normalize(profile.FavoriteRoast)
	for _, f := range profile.FlavorPreferences {
		if f = normalize(f); f != "" {
			s.flavors = append(s.flavors, f)
		}
	}
	return s
}

func (s beanScorer) score(b models.CoffeeBean) (int, []string) {
	score := 0
	var reasons []string

	if s.favoriteRoast != "" && strings.Contains(normalize(b.ProcessingMethod), s.favoriteRoast) {
		score += roastMatchBonus
		reasons = append(reasons, fmt.Sprintf("Matches your favorite %s roast", s.favoriteRoast))
	}

	notes := normalize(b.TastingNotes)
	for _, flavor := range s.flavors {
		if strings.Contains(notes, flavor) {
			score += flavorMatchBonus
			reasons = append(reasons, fmt.Sprintf("Tasting notes include %s", flavor))
			break
		}
	}

	if origin := normalize(b.OriginCountry); origin != "" {
		if _, seen := s.purchasedOrigin[origin]; !seen {
			score += newOriginBonus
			reasons = append(reasons, fmt.Sprintf("A new origin for you: %s", b.OriginCountry))
		}
	}

	if b.IsFeatured {
		score += featuredBonus
		reasons = append(reasons, "Featured bean")
	}

	if maxElevation(b.Elevation) > highElevationMeters {
		score += elevationBonus
		reasons = append(reasons, "High-altitude grown")
	}

	return score, reasons
}

func (s beanScorer) rank(beans []models.CoffeeBean) []BeanRecommendation {
	out := make([]BeanRecommendation, 0, len(beans))
	for _, b := range beans {
		if b.StockQuantity <= 0 {
			continue
		}
		score, reasons := s.score(b)
		if score == 0 {
			continue
		}
		out = append(out, BeanRecommendation{Bean: beanView(b), Score: score, Reasons: reasons})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Bean.Name != out[j].Bean.Name {
			return out[i].Bean.Name < out[j].Bean.Name
		}
		return out[i].Bean.ID.String() < out[j].Bean.ID.String()
	})
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

// maxElevation returns the largest number in free text such as
// "1,800-2,000 masl", or 0 when none is present.
func maxElevation(text string) int {
	highest := 0
	for _, match := range elevationNumber.FindAllString(text, -1) {
		v, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
