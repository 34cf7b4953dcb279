package keywords

import (
	"strings"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

const MaxSeeds = 15

// phrase banks; {city} is replaced with the target city.
var seedBanks = map[entity.Industry][]string{
	entity.IndustryMedical: {
		"weight loss clinic {city}",
		"medical weight loss {city}",
		"semaglutide {city}",
		"ozempic {city}",
		"wegovy {city}",
		"botox {city}",
		"med spa {city}",
		"iv therapy {city}",
		"hormone replacement therapy {city}",
		"weight loss doctor near me",
		"med spa near me",
		"botox cost {city}",
		"best med spa {city}",
		"testosterone clinic {city}",
		"aesthetic clinic {city}",
	},
	entity.IndustryVenue: {
		"event venue {city}",
		"wedding venue {city}",
		"party venue {city}",
		"banquet hall {city}",
		"corporate event space {city}",
		"private event room {city}",
		"event venue near me",
		"wedding venue cost {city}",
		"best wedding venues {city}",
		"birthday party venue {city}",
		"conference venue {city}",
		"outdoor wedding venue {city}",
		"quinceanera venue {city}",
		"rehearsal dinner venue {city}",
		"event space rental {city}",
	},
	entity.IndustryHomeServices: {
		"plumber {city}",
		"hvac repair {city}",
		"ac repair {city}",
		"electrician {city}",
		"roofing contractor {city}",
		"plumber near me",
		"ac repair near me",
		"water heater replacement cost {city}",
		"best hvac company {city}",
		"emergency plumber {city}",
		"home services {city}",
		"landscaping {city}",
		"pest control {city}",
		"garage door repair {city}",
		"pool cleaning services {city}",
	},
}

var smallBusinessPatterns = []string{
	"{service} {city}",
	"{service} near me",
	"best {service} {city}",
	"{service} cost {city}",
	"{service} price",
	"{service} services {city}",
	"affordable {service} {city}",
	"local {service}",
	"{service} company {city}",
	"top rated {service} {city}",
}

// BuildSeeds returns at most MaxSeeds lower-cased, de-duplicated seed keywords.
// Explicit seeds replace the phrase bank entirely.
func BuildSeeds(industry entity.Industry, city, service string, explicit []string) []string {
	city = strings.ToLower(strings.TrimSpace(city))
	service = strings.ToLower(strings.TrimSpace(service))

	var raw []string
	switch {
	case len(explicit) > 0:
		raw = explicit
	case industry == entity.IndustrySmallBusiness:
		if service == "" {
			service = "small business marketing"
		}
		raw = make([]string, 0, len(smallBusinessPatterns))
		for _, p := range smallBusinessPatterns {
			raw = append(raw, strings.ReplaceAll(p, "{service}", service))
		}
	default:
		raw = seedBanks[industry]
	}

	seen := make(map[string]struct{}, len(raw))
	seeds := make([]string, 0, MaxSeeds)
	for _, s := range raw {
		s = strings.ReplaceAll(s, "{city}", city)
		s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		seeds = append(seeds, s)
		if len(seeds) == MaxSeeds {
			break
		}
	}
	return seeds
}
