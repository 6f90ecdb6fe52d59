package bot

import (
	"strings"
	"testing"

	"github.com/m3rciful/wishbot/internal/wishlist"
)

func strPtr(s string) *string { return &s }

func TestRenderListShowsStatusBadges(t *testing.T) {
	reserver := "@alice"
	overview := []wishlist.GiftOverview{
		{Gift: wishlist.Gift{ID: 1, Title: "Socks", Status: wishlist.StatusAvailable}},
		{Gift: wishlist.Gift{ID: 2, Title: "Book", Description: strPtr("hardcover"), Status: wishlist.StatusCommented},
			Comments: []wishlist.Comment{{ID: 7, GiftID: 2, Author: "@bob", Text: "count me in"}}},
		{Gift: wishlist.Gift{ID: 3, Title: "Lego", Status: wishlist.StatusReserved, ReservedBy: &reserver}},
	}

	out := renderList(overview)

	for _, want := range []string{
		"*Birthday Wishlist*",
		"1️⃣ *Socks*",
		"🟢 *Available*",
		"_hardcover_",
		"🟡 *Commented*",
		"💬 *Comments:*",
		"7. @bob: _count me in_",
		"🔴 *Reserved* by *@alice*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("renderList missing %q\n%s", want, out)
		}
	}
}

func TestRenderListEscapesMarkdown(t *testing.T) {
	overview := []wishlist.GiftOverview{
		{Gift: wishlist.Gift{ID: 1, Title: "Socks *wool*", Status: wishlist.StatusAvailable}},
	}
	out := renderList(overview)
	if !strings.Contains(out, `Socks \*wool\*`) {
		t.Errorf("title not escaped:\n%s", out)
	}
}

func TestRenderGiftAdded(t *testing.T) {
	g := wishlist.Gift{ID: 4, Title: "Socks", Description: strPtr("warm")}
	out := renderGiftAdded(g)
	if !strings.Contains(out, "4️⃣ *Socks*") || !strings.Contains(out, "_warm_") {
		t.Errorf("renderGiftAdded = %q", out)
	}

	out = renderGiftAdded(wishlist.Gift{ID: 5, Title: "Book"})
	if strings.Contains(out, "__") {
		t.Errorf("empty description rendered as italics: %q", out)
	}
}
