package audio

import "net/http"

// The translate endpoint answers browsers only, so every request carries
// the headers of the Flash sound player the web page used to embed.
// Host is not listed: it is taken from the endpoint URL.
var speechHeaders = map[string]string{
	"Referer":    "http://www.gstatic.com/translate/sound_player2.swf",
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_7_3) AppleWebKit/535.19 (KHTML, like Gecko) Chrome/18.0.1025.163 Safari/535.19",
}

// SpeechHeaders returns a fresh copy of the request headers
func SpeechHeaders() http.Header {
	h := make(http.Header)
	for k, v := range speechHeaders {
		h.Set(k, v)
	}
	return h
}
