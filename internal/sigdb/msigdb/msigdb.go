// Package msigdb provides gene signature loading from MSigDB XML exports.
package msigdb

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sigtools/sigscore/internal/sig"
)

// organism is the only ORGANISM value kept. Anything else is discarded.
const organism = "Homo sapiens"

// geneSetPageURL prefixes the info link stored on every loaded signature.
const geneSetPageURL = "http://www.broadinstitute.org/gsea/msigdb/geneset_page.jsp?geneSetName="

// geneSet mirrors the GENESET element attributes the loader uses. MSigDB
// exports carry many more attributes; the decoder ignores them.
type geneSet struct {
	StandardName   string `xml:"STANDARD_NAME,attr"`
	SystematicName string `xml:"SYSTEMATIC_NAME,attr"`
	Organism       string `xml:"ORGANISM,attr"`
	CategoryCode   string `xml:"CATEGORY_CODE,attr"`
	MembersEZID    string `xml:"MEMBERS_EZID,attr"`
}

// Load reads a whole MSigDB XML export. Signatures are keyed
// "<CATEGORY_CODE>_<SYSTEMATIC_NAME>" (e.g. "C5_M12345") and carry the
// geneset page URL as info. Sets whose organism is not "Homo sapiens", or
// that lack a systematic name or members, are skipped and reported in the
// discard list in document order.
func Load(path string) (map[string]*sig.Signature, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open msigdb file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse streams GENESET elements from r. A malformed document fails hard;
// only well-formed sets are filtered into the discard list.
func Parse(r io.Reader) (map[string]*sig.Signature, []string, error) {
	db := make(map[string]*sig.Signature)
	var discarded []string

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse msigdb xml: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "GENESET" {
			continue
		}

		var gs geneSet
		if err := dec.DecodeElement(&gs, &se); err != nil {
			return nil, nil, fmt.Errorf("decode GENESET: %w", err)
		}

		if gs.Organism != organism {
			discarded = append(discarded, discardName(gs))
			continue
		}
		if gs.SystematicName == "" {
			discarded = append(discarded, discardName(gs))
			continue
		}
		members := splitMembers(gs.MembersEZID)
		if len(members) == 0 {
			discarded = append(discarded, discardName(gs))
			continue
		}

		key := gs.CategoryCode + "_" + gs.SystematicName
		db[key] = sig.New(members, geneSetPageURL+gs.StandardName)
	}

	return db, discarded, nil
}

// discardName picks the identifier recorded for a skipped set: the
// systematic name when present, otherwise the standard name.
func discardName(gs geneSet) string {
	if gs.SystematicName != "" {
		return gs.SystematicName
	}
	return gs.StandardName
}

// splitMembers splits the comma-separated Entrez ID list, dropping empty
// entries left by stray commas.
func splitMembers(s string) []string {
	var members []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			members = append(members, m)
		}
	}
	return members
}
