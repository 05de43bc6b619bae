// Package reference holds the static lookup tables used by forms: music
// genres and countries. The tables are built once at package init and are
// read-only afterwards.
package reference

import (
	"sort"
	"strings"
)

var (
	genres    = newTable(genreNames)
	countries = newTable(countryNames)
)

// Table is an immutable, sorted list of names with case-insensitive lookup.
type Table struct {
	names []string
	index map[string]string
}

func newTable(raw []string) *Table {
	index := make(map[string]string, len(raw))
	for _, name := range raw {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := index[key]; !ok {
			index[key] = name
		}
	}
	names := make([]string, 0, len(index))
	for _, name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Table{names: names, index: index}
}

// Names returns a copy of the sorted names.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Lookup returns the canonical spelling of name, if present.
func (t *Table) Lookup(name string) (string, bool) {
	canonical, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Len returns the number of distinct names.
func (t *Table) Len() int { return len(t.names) }

// Genres returns the genre table.
func Genres() *Table { return genres }

// Countries returns the country table.
func Countries() *Table { return countries }

var genreNames = []string{
	"Pop", "Rock", "Indie", "Alternative", "Hard Rock", "Soft Rock",
	"Classic Rock", "Progressive Rock", "Punk", "Post-Punk", "Emo",
	"Metal", "Heavy Metal", "Thrash Metal", "Death Metal", "Black Metal",
	"Doom Metal", "Power Metal", "Grunge", "Blues", "Blues Rock",
	"Jazz", "Smooth Jazz", "Bebop", "Fusion", "Swing", "Soul", "R&B",
	"Funk", "Disco", "Gospel", "Christian", "Reggae", "Ska", "Dub",
	"Hip Hop", "Rap", "Trap", "Boom Bap", "Lo-fi Hip Hop", "Ragga",
	"Electronic", "EDM", "House", "Deep House", "Tech House", "Progressive House",
	"Techno", "Minimal", "Trance", "Drum and Bass", "DnB", "Jungle",
	"Ambient", "Downtempo", "Chillout", "Electro", "Synthwave", "Industrial",
	"Experimental", "Noise", "Avant-Garde", "Classical", "Baroque", "Romantic",
	"Contemporary Classical", "Opera", "Soundtrack", "Film Score", "World",
	"Latin", "Salsa", "Bachata", "Merengue", "Reggaeton", "Tango", "Flamenco",
	"Afrobeat", "Highlife", "K-Pop", "J-Pop", "C-Pop", "Mandopop", "Bollywood",
	"Folk", "Country", "Alt-Country", "Bluegrass", "Singer-Songwriter", "Acoustic",
	"Psychedelic", "House Pop", "Indie Pop", "Synth Pop", "Electropop", "Dance Pop",
	"Latin Pop", "Contemporary R&B", "Neo Soul", "Garage Rock", "Britpop",
	"Trap Metal", "Post-Rock", "Math Rock", "Ambient Pop", "New Wave",
	"Minimal Wave", "Sertanejo", "Tropical", "Cumbia", "Vallenato", "Zouk",
	"Afro-Cuban", "Flamenco Fusion", "World Fusion", "Experimental Pop",
	"Garage", "Southern Rock", "Shoegaze", "Dream Pop", "College Rock",
	"Hardcore Punk", "Metalcore", "Post-Hardcore", "Screamo",
	"Blue Eyed Soul", "Ragtime", "Traditional", "Contemporary", "Elektronica",
}

var countryNames = []string{
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Argentina",
	"Armenia", "Australia", "Austria", "Azerbaijan", "Bahamas", "Bahrain",
	"Bangladesh", "Barbados", "Belarus", "Belgium", "Belize", "Benin",
	"Bhutan", "Bolivia", "Bosnia and Herzegovina", "Botswana", "Brazil",
	"Brunei", "Bulgaria", "Burkina Faso", "Burundi", "Cambodia", "Cameroon",
	"Canada", "Cape Verde", "Central African Republic", "Chad", "Chile",
	"China", "Colombia", "Comoros", "Congo", "Costa Rica", "Croatia", "Cuba",
	"Cyprus", "Czech Republic", "Denmark", "Djibouti", "Dominica",
	"Dominican Republic", "Ecuador", "Egypt", "El Salvador",
	"Equatorial Guinea", "Eritrea", "Estonia", "Eswatini", "Ethiopia", "Fiji",
	"Finland", "France", "Gabon", "Gambia", "Georgia", "Germany", "Ghana",
	"Greece", "Grenada", "Guatemala", "Guinea", "Guinea-Bissau", "Guyana",
	"Haiti", "Honduras", "Hungary", "Iceland", "India", "Indonesia", "Iran",
	"Iraq", "Ireland", "Israel", "Italy", "Ivory Coast", "Jamaica", "Japan",
	"Jordan", "Kazakhstan", "Kenya", "Kiribati", "Kosovo", "Kuwait",
	"Kyrgyzstan", "Laos", "Latvia", "Lebanon", "Lesotho", "Liberia", "Libya",
	"Liechtenstein", "Lithuania", "Luxembourg", "Madagascar", "Malawi",
	"Malaysia", "Maldives", "Mali", "Malta", "Marshall Islands", "Mauritania",
	"Mauritius", "Mexico", "Micronesia", "Moldova", "Monaco", "Mongolia",
	"Montenegro", "Morocco", "Mozambique", "Myanmar", "Namibia", "Nauru",
	"Nepal", "Netherlands", "New Zealand", "Nicaragua", "Niger", "Nigeria",
	"North Korea", "North Macedonia", "Norway", "Oman", "Pakistan", "Palau",
	"Palestine", "Panama", "Papua New Guinea", "Paraguay", "Peru",
	"Philippines", "Poland", "Portugal", "Puerto Rico", "Qatar", "Romania",
	"Russia", "Rwanda", "Saint Lucia", "Samoa", "San Marino", "Saudi Arabia",
	"Senegal", "Serbia", "Seychelles", "Sierra Leone", "Singapore",
	"Slovakia", "Slovenia", "Solomon Islands", "Somalia", "South Africa",
	"South Korea", "South Sudan", "Spain", "Sri Lanka", "Sudan", "Suriname",
	"Sweden", "Switzerland", "Syria", "Taiwan", "Tajikistan", "Tanzania",
	"Thailand", "Togo", "Tonga", "Trinidad and Tobago", "Tunisia", "Turkey",
	"Turkmenistan", "Tuvalu", "Uganda", "Ukraine", "United Arab Emirates",
	"United Kingdom", "United States", "Uruguay", "Uzbekistan", "Vanuatu",
	"Vatican City", "Venezuela", "Vietnam", "Yemen", "Zambia", "Zimbabwe",
}
