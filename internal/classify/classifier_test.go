package classify

import (
	"bytes"
	"testing"

	"golang.org/x/net/html"

	"github.com/acsarchive/acsharvest/internal/model"
)

// pageFrom builds a model.Page with a parsed document tree from raw HTML.
func pageFrom(t *testing.T, body string) *model.Page {
	t.Helper()
	root, err := html.Parse(bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("parse test HTML: %v", err)
	}
	return &model.Page{URL: "https://example.com/scp-042", Raw: []byte(body), Root: root}
}

// acsBarHTML is a minimal full ACS bar component.
const acsBarHTML = `<html><body>
<div class="anom-bar-container">
  <div class="top-right-box"><div class="level">Level 3</div></div>
  <div class="contain-class"><div class="class-text">Standard</div></div>
  <div class="second-class"><div class="class-text">none</div></div>
  <div class="disrupt-class"><div class="class-text">Vlam</div></div>
  <div class="risk-class"><div class="class-text">Notable</div></div>
</div>
</body></html>`

// TestClassifyACSBar tests structured extraction from the full bar
// (end-to-end scenario: Risk=Notable, Containment=Standard, Disruption=Vlam).
func TestClassifyACSBar(t *testing.T) {
	t.Parallel()

	out := New().Classify(pageFrom(t, acsBarHTML))
	if !out.Found {
		t.Fatal("expected Found")
	}
	if out.Method != model.MethodStructured {
		t.Errorf("Method = %q, want structured", out.Method)
	}
	if out.Fields.Risk != "Notable" {
		t.Errorf("Risk = %q, want Notable", out.Fields.Risk)
	}
	if out.Fields.Containment != "Standard" {
		t.Errorf("Containment = %q, want Standard", out.Fields.Containment)
	}
	if out.Fields.Disruption != "Vlam" {
		t.Errorf("Disruption = %q, want Vlam", out.Fields.Disruption)
	}
	if out.Fields.Clearance != "LEVEL 3" {
		t.Errorf("Clearance = %q, want LEVEL 3", out.Fields.Clearance)
	}
	if out.Fields.Secondary != "" {
		t.Errorf("Secondary = %q, want empty (explicit none)", out.Fields.Secondary)
	}
}

// TestClassifyHybridBarPrecedence tests that the hybrid bar wins over the
// plain bar it embeds.
func TestClassifyHybridBarPrecedence(t *testing.T) {
	t.Parallel()

	body := `<html><body>
<div class="acs-hybrid-text-bar">
  <div class="acs-clear"><strong>Level 2</strong></div>
  <div class="acs-contain"><div class="acs-text"><span>Containment:</span><span>euclid</span></div></div>
  <div class="acs-secondary"><div class="acs-text"><span>Secondary:</span><span>thaumiel</span></div></div>
  <div class="acs-disrupt"><div class="acs-text">keneq</div></div>
  <div class="acs-risk"><div class="acs-text">warning</div></div>
  <div class="anom-bar-container">
    <div class="contain-class"><div class="class-text">WRONG</div></div>
  </div>
</div>
</body></html>`

	out := New().Classify(pageFrom(t, body))
	if !out.Found || out.Method != model.MethodStructured {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Fields.Containment != "euclid" {
		t.Errorf("Containment = %q, want euclid (hybrid bar must win)", out.Fields.Containment)
	}
	if out.Fields.Secondary != "thaumiel" {
		t.Errorf("Secondary = %q, want thaumiel", out.Fields.Secondary)
	}
	if out.Fields.Clearance != "LEVEL 2" {
		t.Errorf("Clearance = %q, want LEVEL 2", out.Fields.Clearance)
	}
}

// TestClassifyFlopsEsotericPromotion tests that an unknown containment class
// in the flops header becomes the secondary class with containment esoteric.
func TestClassifyFlopsEsotericPromotion(t *testing.T) {
	t.Parallel()

	body := `<html><body>
<div class="itemInfo darkbox">
  <table>
    <tr><td>Clearance</td><td><span>4</span></td></tr>
    <tr><td>cernunnos</td></tr>
  </table>
</div>
<p><a class="disruptionHeader">ekhi</a></p>
</body></html>`

	out := New().Classify(pageFrom(t, body))
	if !out.Found || out.Method != model.MethodStructured {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Fields.Containment != "esoteric" {
		t.Errorf("Containment = %q, want esoteric", out.Fields.Containment)
	}
	if out.Fields.Secondary != "cernunnos" {
		t.Errorf("Secondary = %q, want cernunnos", out.Fields.Secondary)
	}
	if out.Fields.Disruption != "ekhi" {
		t.Errorf("Disruption = %q, want ekhi", out.Fields.Disruption)
	}
	if out.Fields.Clearance != "LEVEL 4" {
		t.Errorf("Clearance = %q, want LEVEL 4", out.Fields.Clearance)
	}
}

// TestClassifyAIMHeader tests the AIM header variant with its class-encoded
// clearance level.
func TestClassifyAIMHeader(t *testing.T) {
	t.Parallel()

	body := `<html><body>
<div class="desktop-aim">
  <div class="w-container">
    <div>
      <div><p>item</p></div>
      <div><p><span><span class="three">•</span></span></p></div>
      <div><p>keter</p></div>
      <div><p>amida</p></div>
    </div>
  </div>
</div>
</body></html>`

	out := New().Classify(pageFrom(t, body))
	if !out.Found || out.Method != model.MethodStructured {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Fields.Clearance != "LEVEL 3" {
		t.Errorf("Clearance = %q, want LEVEL 3", out.Fields.Clearance)
	}
	if out.Fields.Containment != "keter" {
		t.Errorf("Containment = %q, want keter", out.Fields.Containment)
	}
	if out.Fields.Disruption != "amida" {
		t.Errorf("Disruption = %q, want amida", out.Fields.Disruption)
	}
}

// TestClassifyPartialStructuredFallsThrough tests that a bar missing a
// required field is never emitted as a partial structured record; the page
// falls through to the text tier.
func TestClassifyPartialStructuredFallsThrough(t *testing.T) {
	t.Parallel()

	body := `<html><body>
<div class="anom-bar-container">
  <div class="contain-class"><div class="class-text">euclid</div></div>
  <!-- no disruption, no risk -->
</div>
<p>Containment Class: euclid</p>
<p>Disruption Class: vlam</p>
</body></html>`

	out := New().Classify(pageFrom(t, body))
	if !out.Found {
		t.Fatal("expected fallback to recover the page")
	}
	if out.Method != model.MethodFallback {
		t.Errorf("Method = %q, want fallback (partial bar must not claim the page)", out.Method)
	}
	if out.Fields.Containment != "euclid" || out.Fields.Disruption != "vlam" {
		t.Errorf("Fields = %+v", out.Fields)
	}
}

// TestClassifyStructuredNeverWeakened tests that for a page classified by
// the structured tier, the fallback tier on the same content either agrees
// or is skipped entirely.
func TestClassifyStructuredNeverWeakened(t *testing.T) {
	t.Parallel()

	// The page carries both a complete bar and contradictory loose text.
	body := `<html><body>
<div class="anom-bar-container">
  <div class="contain-class"><div class="class-text">keter</div></div>
  <div class="disrupt-class"><div class="class-text">amida</div></div>
  <div class="risk-class"><div class="class-text">critical</div></div>
</div>
<p>An old revision was classified as Safe-class.</p>
</body></html>`

	out := New().Classify(pageFrom(t, body))
	if out.Method != model.MethodStructured {
		t.Fatalf("Method = %q, want structured", out.Method)
	}
	if out.Fields.Containment != "keter" {
		t.Errorf("Containment = %q, want keter (text tier must not run)", out.Fields.Containment)
	}
}

// TestClassifyNoSignal tests that an ordinary page yields NotFound.
func TestClassifyNoSignal(t *testing.T) {
	t.Parallel()

	out := New().Classify(pageFrom(t, `<html><body><p>Just a story page.</p></body></html>`))
	if out.Found {
		t.Errorf("expected NotFound, got %+v", out)
	}
}

// TestClassifyNilDocument tests that an unparseable page is a miss, not an
// error.
func TestClassifyNilDocument(t *testing.T) {
	t.Parallel()

	out := New().Classify(&model.Page{URL: "https://example.com/x"})
	if out.Found {
		t.Error("nil document tree must classify as NotFound")
	}
	if New().Classify(nil).Found {
		t.Error("nil page must classify as NotFound")
	}
}
