package color

/*
#cgo pkg-config: lcms2
#include <lcms2.h>
#include <stdlib.h>

// clut_profile wraps a sampled 3-in 3-out grid into an abstract Lab
// profile, as AToB0 when decoding fax codes and BToA0 when encoding them.
static cmsHPROFILE clut_profile(cmsUInt32Number points, const cmsUInt16Number *table,
                                int encode, const char *desc) {
    cmsPipeline *lut = cmsPipelineAlloc(NULL, 3, 3);
    if (lut == NULL) return NULL;

    cmsStage *clut = cmsStageAllocCLut16bit(NULL, points, 3, 3, table);
    if (clut == NULL) {
        cmsPipelineFree(lut);
        return NULL;
    }
    if (!cmsPipelineInsertStage(lut, cmsAT_BEGIN, clut)) {
        cmsStageFree(clut);
        cmsPipelineFree(lut);
        return NULL;
    }

    cmsHPROFILE h = cmsCreateProfilePlaceholder(NULL);
    if (h == NULL) {
        cmsPipelineFree(lut);
        return NULL;
    }
    cmsSetDeviceClass(h, cmsSigColorSpaceClass);
    cmsSetColorSpace(h, cmsSigLabData);
    cmsSetPCS(h, cmsSigLabData);

    int ok = cmsWriteTag(h, encode ? cmsSigBToA0Tag : cmsSigAToB0Tag, lut);
    cmsPipelineFree(lut);

    cmsMLU *mlu = cmsMLUalloc(NULL, 1);
    if (mlu != NULL) {
        cmsMLUsetASCII(mlu, "en", "US", desc);
        cmsWriteTag(h, cmsSigProfileDescriptionTag, mlu);
        cmsMLUfree(mlu);
    }

    if (!ok) {
        cmsCloseProfile(h);
        return NULL;
    }
    return h;
}
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/itufax"
)

// DesaturateLab clips lab into the chroma box g along lines of constant
// hue, using lcms2's own remapping.
func DesaturateLab(lab itufax.Lab, g itufax.Gamut) itufax.Lab {
	c := C.cmsCIELab{
		L: C.cmsFloat64Number(lab.L),
		a: C.cmsFloat64Number(lab.A),
		b: C.cmsFloat64Number(lab.B),
	}
	C.cmsDesaturateLab(&c, C.double(g.AMax), C.double(g.AMin), C.double(g.BMax), C.double(g.BMin))
	return itufax.Lab{L: float64(c.L), A: float64(c.a), B: float64(c.b)}
}

// NewITUProfile builds the virtual fax Lab profile for dir. The grid is
// sampled in Go and handed to lcms2 as a finished table.
func NewITUProfile(ctx context.Context, dir itufax.Direction) (*Profile, error) {
	tbl, err := itufax.Build(ctx, dir, DesaturateLab)
	if err != nil {
		return nil, fmt.Errorf("%w: fax %s table: %w", ir.ErrEngine, dir, err)
	}

	encode := C.int(0)
	desc := C.CString("ITU-T T.42 fax Lab " + dir.String())
	defer C.free(unsafe.Pointer(desc))
	if dir == itufax.FromPCS {
		encode = 1
	}

	h := C.clut_profile(
		C.cmsUInt32Number(tbl.Points),
		(*C.cmsUInt16Number)(unsafe.Pointer(&tbl.Values[0])),
		encode, desc,
	)
	if h == nil {
		return nil, fmt.Errorf("%w: lcms2: cannot build fax %s profile", ir.ErrEngine, dir)
	}
	return newProfile(h, FaxToken), nil
}
