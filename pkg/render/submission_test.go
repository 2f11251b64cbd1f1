package render_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.Hidden(render.HiddenIntent, render.IntentUpdate),
		render.RevisionField(4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing":  "keep",
		"_intent":   "update",
		"_revision": "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields([]render.HiddenField{
		render.RevisionField(1),
		render.Hidden(render.HiddenIntent, render.IntentUpdate),
		render.RevisionField(2),
	})
	wantSorted := []render.HiddenField{
		{Name: "_intent", Value: "update"},
		{Name: "_revision", Value: "2"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPostedIntent(t *testing.T) {
	cases := map[string]string{
		"":       render.IntentUpdate,
		"update": render.IntentUpdate,
		"submit": render.IntentSubmit,
		" edit ": render.IntentEdit,
	}
	for raw, want := range cases {
		got, err := render.PostedIntent(url.Values{render.HiddenIntent: {raw}})
		if err != nil {
			t.Fatalf("intent %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("intent %q: expected %q, got %q", raw, want, got)
		}
	}

	if _, err := render.PostedIntent(url.Values{render.HiddenIntent: {"delete"}}); !errors.Is(err, render.ErrUnknownIntent) {
		t.Fatalf("expected ErrUnknownIntent, got %v", err)
	}
}

func TestPostedRevision(t *testing.T) {
	rev, ok, err := render.PostedRevision(url.Values{render.HiddenRevision: {"7"}})
	if err != nil || !ok || rev != 7 {
		t.Fatalf("expected revision 7, got %d ok=%v err=%v", rev, ok, err)
	}

	if _, ok, err := render.PostedRevision(url.Values{}); ok || err != nil {
		t.Fatalf("absent revision should be ok=false without error, got ok=%v err=%v", ok, err)
	}

	if _, _, err := render.PostedRevision(url.Values{render.HiddenRevision: {"-1"}}); err == nil {
		t.Fatal("expected error for malformed revision")
	}
}
