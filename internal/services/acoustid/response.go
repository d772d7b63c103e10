package acoustid

import "strconv"

// lookupResponse models the AcoustID lookup payload. Decoded once at the
// boundary; everything past here works with Candidate.
type lookupResponse struct {
	Status  string         `json:"status"`
	Error   lookupError    `json:"error"`
	Results []lookupResult `json:"results"`
}

type lookupError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lookupResult struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Recordings []lookupRecording `json:"recordings"`
}

type lookupRecording struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Duration float64         `json:"duration"`
	Artists  []lookupArtist  `json:"artists"`
	Releases []lookupRelease `json:"releases"`
}

type lookupArtist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

type lookupRelease struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Date  lookupDate `json:"date"`
}

// lookupDate tolerates the partial dates AcoustID emits (year only, or
// year and month).
type lookupDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d lookupDate) String() string {
	if d.Year == 0 {
		return ""
	}
	out := strconv.Itoa(d.Year)
	if d.Month > 0 {
		out += "-" + pad2(d.Month)
		if d.Day > 0 {
			out += "-" + pad2(d.Day)
		}
	}
	return out
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
