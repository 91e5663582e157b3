// Image construction: the single-rooted, eagerly decoded DEX model.
package dex

import (
	"fmt"

	"baksmali/internal/dexfmt"
)

// Image is a fully decoded DEX file. It is built once and read-only
// afterwards; concurrent readers need no locking. All decoded strings are
// owned copies, so the image is self-contained.
type Image struct {
	Header  *Header
	Pools   *Pools
	Classes []*Class

	// ClassErrors records classes that failed to decode in best-effort
	// mode; the image still carries every class that survived.
	ClassErrors []error

	diags dexfmt.Diags
}

// Diags returns the non-fatal issues accumulated during decoding.
func (img *Image) Diags() []dexfmt.Diag { return img.diags.Items() }

// NewImage decodes a DEX byte buffer. The header and all six id/def
// sections must parse or construction fails; per-class decode failures are
// isolated according to opts.Mode.
func NewImage(data []byte, opts dexfmt.Options) (*Image, error) {
	c := dexfmt.NewCursor(data)

	h, err := parseHeader(c)
	if err != nil {
		return nil, err
	}

	img := &Image{Header: h, Pools: &Pools{}}

	if img.Pools.Strings, err = parseStringIDs(c, h); err != nil {
		return nil, err
	}
	if img.Pools.Types, err = parseTypeIDs(c, h, img.Pools.Strings); err != nil {
		return nil, err
	}
	if img.Pools.Protos, err = parseProtoIDs(c, h, img.Pools.Strings, img.Pools.Types); err != nil {
		return nil, err
	}
	if img.Pools.Fields, err = parseFieldIDs(c, h, img.Pools.Strings); err != nil {
		return nil, err
	}
	if img.Pools.Methods, err = parseMethodIDs(c, h, img.Pools.Strings); err != nil {
		return nil, err
	}

	defs, err := parseClassDefs(c, h)
	if err != nil {
		return nil, err
	}

	d := &decoder{c: c, h: h, pools: img.Pools, diags: &img.diags}

	for i, def := range defs {
		cls, err := d.decodeClass(def)
		if err != nil {
			name := img.Pools.Type(def.ClassIdx)
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			cerr := &ClassError{Name: name, Err: err}
			if opts.Mode == dexfmt.ModeStrict {
				return nil, cerr
			}
			img.ClassErrors = append(img.ClassErrors, cerr)
			continue
		}
		img.Classes = append(img.Classes, cls)
	}

	synthesizeMemberClasses(img.Classes)

	return img, nil
}
