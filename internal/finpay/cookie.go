package finpay

import (
	"net/http"
)

// FinishURLCookieName carries the shopper's post-payment destination across
// the external redirect. There is no server-side session on the return leg,
// so the browser holds the URL itself.
const FinishURLCookieName = "wc_finpay_last_order_finish_url"

const finishURLCookieMaxAge = 86400

// RememberFinishURL stores the order's return URL in the shopper's browser
// for the redirect round trip through the hosted payment page.
func RememberFinishURL(w http.ResponseWriter, finishURL string) {
	http.SetCookie(w, &http.Cookie{
		Name:   FinishURLCookieName,
		Value:  finishURL,
		MaxAge: finishURLCookieMaxAge,
		Path:   "/",
	})
}

// RecallFinishURL reads the stored return URL, falling back to the shop
// home page when the cookie is absent or empty.
func RecallFinishURL(r *http.Request, fallback string) string {
	cookie, err := r.Cookie(FinishURLCookieName)
	if err != nil || cookie.Value == "" {
		return fallback
	}
	return cookie.Value
}
