package color

/*
#cgo pkg-config: lcms2
#include <lcms2.h>
#include <stdlib.h>

static cmsHPROFILE open_gray(double gamma) {
    cmsToneCurve *curve = cmsBuildGamma(NULL, gamma);
    if (curve == NULL) return NULL;
    cmsHPROFILE h = cmsCreateGrayProfile(cmsD50_xyY(), curve);
    cmsFreeToneCurve(curve);
    return h;
}

static cmsUInt32Number profile_info(cmsHPROFILE h, cmsInfoType what, char *buf, cmsUInt32Number size) {
    return cmsGetProfileInfoASCII(h, what, "en", "US", buf, size);
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/davesmith10/jpgicc/internal/ir"
)

// FaxToken names the virtual ITU fax Lab profile on the command line.
const FaxToken = "*Lab"

// Profile is an open lcms2 profile handle.
type Profile struct {
	h    C.cmsHPROFILE
	name string
}

func newProfile(h C.cmsHPROFILE, name string) *Profile {
	p := &Profile{h: h, name: name}
	runtime.SetFinalizer(p, (*Profile).Close)
	return p
}

// OpenProfile opens an ICC profile from memory. lcms2 keeps its own copy
// of data.
func OpenProfile(data []byte) (*Profile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: lcms2: empty profile", ir.ErrEngine)
	}
	h := C.cmsOpenProfileFromMem(unsafe.Pointer(&data[0]), C.cmsUInt32Number(len(data)))
	if h == nil {
		return nil, fmt.Errorf("%w: lcms2: failed to open profile", ir.ErrEngine)
	}
	return newProfile(h, "memory"), nil
}

// OpenNamed opens a profile file, or a built-in profile when name starts
// with '*': *sRGB, *Lab2, *Lab4, *XYZ, *Gray22, *Gray30 or *null.
func OpenNamed(name string) (*Profile, error) {
	if !strings.HasPrefix(name, "*") {
		data, err := LoadProfile(name)
		if err != nil {
			return nil, err
		}
		p, err := OpenProfile(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		p.name = name
		return p, nil
	}

	var h C.cmsHPROFILE
	switch strings.ToLower(name) {
	case "*srgb":
		p, err := OpenProfile(SRGB)
		if err != nil {
			return nil, err
		}
		p.name = name
		return p, nil
	case "*lab2":
		h = C.cmsCreateLab2Profile(nil)
	case "*lab4":
		h = C.cmsCreateLab4Profile(nil)
	case "*xyz":
		h = C.cmsCreateXYZProfile()
	case "*gray22":
		h = C.open_gray(2.2)
	case "*gray30":
		h = C.open_gray(3.0)
	case "*null":
		h = C.cmsCreateNULLProfile()
	case strings.ToLower(FaxToken):
		return nil, fmt.Errorf("%w: %s is built by the fax profile factory", ir.ErrConfiguration, name)
	default:
		return nil, fmt.Errorf("%w: unknown built-in profile %q", ir.ErrConfiguration, name)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: lcms2: failed to create %s", ir.ErrEngine, name)
	}
	return newProfile(h, name), nil
}

// Name returns the file name or token the profile was opened from.
func (p *Profile) Name() string { return p.name }

// ColorSpace returns the device side color space.
func (p *Profile) ColorSpace() ir.ColorSpace {
	return SpaceOf(uint32(C.cmsGetColorSpace(p.h)))
}

// PCS returns the profile connection space. For a device link this is the
// output side.
func (p *Profile) PCS() ir.ColorSpace {
	return SpaceOf(uint32(C.cmsGetPCS(p.h)))
}

// IsDeviceLink reports whether the profile is of the link class.
func (p *Profile) IsDeviceLink() bool {
	return uint32(C.cmsGetDeviceClass(p.h)) == uint32(C.cmsSigLinkClass)
}

// Info returns the description, manufacturer, model and copyright text.
func (p *Profile) Info() ir.ProfileInfo {
	return ir.ProfileInfo{
		Description:  p.info(C.cmsInfoDescription),
		Manufacturer: p.info(C.cmsInfoManufacturer),
		Model:        p.info(C.cmsInfoModel),
		Copyright:    p.info(C.cmsInfoCopyright),
	}
}

func (p *Profile) info(what C.cmsInfoType) string {
	var buf [1024]C.char
	if C.profile_info(p.h, what, &buf[0], C.cmsUInt32Number(len(buf))) == 0 {
		return ""
	}
	return C.GoString(&buf[0])
}

// Bytes serializes the profile.
func (p *Profile) Bytes() ([]byte, error) {
	var n C.cmsUInt32Number
	if C.cmsSaveProfileToMem(p.h, nil, &n) == 0 || n == 0 {
		return nil, fmt.Errorf("%w: lcms2: cannot size profile %s", ir.ErrEngine, p.name)
	}
	buf := make([]byte, int(n))
	if C.cmsSaveProfileToMem(p.h, unsafe.Pointer(&buf[0]), &n) == 0 {
		return nil, fmt.Errorf("%w: lcms2: cannot serialize profile %s", ir.ErrEngine, p.name)
	}
	return buf[:int(n)], nil
}

// Close releases the lcms2 handle.
func (p *Profile) Close() error {
	if p.h != nil {
		C.cmsCloseProfile(p.h)
		p.h = nil
	}
	return nil
}
