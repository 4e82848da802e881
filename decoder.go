package echolab

import "errors"

// ErrNoDecoder is returned by the default OpenRawFile hook. Byte-level
// EK60/ES60/ES70/ME70 datagram decoding is outside this module's scope
// (see SPEC_FULL.md's Non-goals); a deployment wires its own decoder in by
// replacing this variable before calling ConvertFile/ConvertList.
var ErrNoDecoder = errors.New("echolab: no DatagramReader decoder registered for raw files")

// OpenRawFile is the injection point a caller overrides with a concrete
// raw-file decoder, analogous in spirit to the teacher's gsf.OpenGSF
// constructor but deliberately left unimplemented here: this module
// consumes an already-decoded Datagram stream (§4.2/§6) rather than
// parsing the instrument's binary wire format itself.
var OpenRawFile = func(rawURI string) (DatagramReader, error) {
	return nil, ErrNoDecoder
}
