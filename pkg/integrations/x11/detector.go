package x11

import (
	"bytes"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/actionsum/hostprobe/pkg/probe"
)

// maxPropertyLongs bounds property reads, in 32-bit units
const maxPropertyLongs = 4096

// screensaverExtension is the X extension serving idle time
const screensaverExtension = "MIT-SCREEN-SAVER"

// maxTreeDepth bounds the walk from a focused child to its top-level window
const maxTreeDepth = 64

// Detector queries an X11 display. Every call opens its own connection and
// closes it before returning; window IDs never outlive the call.
type Detector struct {
	display string
}

// NewDetector creates an X11 detector for display; "" means $DISPLAY
func NewDetector(display string) *Detector {
	return &Detector{display: display}
}

// DisplayServer returns "x11"
func (d *Detector) DisplayServer() string {
	return "x11"
}

// IdleTimeMs returns MsSinceUserInput from the MIT-SCREEN-SAVER extension
func (d *Detector) IdleTimeMs() (uint64, error) {
	c, err := d.connect()
	if err != nil {
		return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "failed to open X display")
	}
	defer c.close()

	if err := screensaver.Init(c.conn); err != nil {
		return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, screensaverExtension+" extension unavailable")
	}

	reply, err := screensaver.QueryInfo(c.conn, xproto.Drawable(c.root)).Reply()
	if err != nil {
		return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "screensaver QueryInfo failed")
	}
	if reply == nil {
		return 0, probe.QueryFailed(probe.OpIdleTime, "screensaver QueryInfo returned no reply")
	}

	return uint64(reply.MsSinceUserInput), nil
}

// SupportsIdle reports whether the display is reachable and carries the
// MIT-SCREEN-SAVER extension
func (d *Detector) SupportsIdle() bool {
	c, err := d.connect()
	if err != nil {
		return false
	}
	defer c.close()

	return c.hasExtension(screensaverExtension)
}

// SupportsTitle reports whether the display is reachable
func (d *Detector) SupportsTitle() bool {
	c, err := d.connect()
	if err != nil {
		return false
	}
	c.close()
	return true
}

// ActiveWindowTitle returns the focused top-level window's name. An
// unreachable display, no active window and an unnamed window all give "".
func (d *Detector) ActiveWindowTitle() (string, error) {
	c, err := d.connect()
	if err != nil {
		return "", nil
	}
	defer c.close()

	w := c.activeWindow()
	if w == xproto.WindowNone {
		return "", nil
	}
	return c.windowName(w), nil
}

type client struct {
	conn *xgb.Conn
	root xproto.Window
}

func (d *Detector) connect() (*client, error) {
	conn, err := xgb.NewConnDisplay(d.display)
	if err != nil {
		return nil, errors.Wrap(err, "xgb connect")
	}

	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, errors.New("X server reported no screens")
	}

	return &client{conn: conn, root: setup.DefaultScreen(conn).Root}, nil
}

func (c *client) close() {
	c.conn.Close()
}

func (c *client) hasExtension(name string) bool {
	reply, err := xproto.QueryExtension(c.conn, uint16(len(name)), name).Reply()
	return err == nil && reply != nil && reply.Present
}

// atom returns the named atom, AtomNone when the server does not know it
func (c *client) atom(name string) xproto.Atom {
	reply, err := xproto.InternAtom(c.conn, true, uint16(len(name)), name).Reply()
	if err != nil || reply == nil {
		return xproto.AtomNone
	}
	return reply.Atom
}

func (c *client) property(w xproto.Window, prop, typ xproto.Atom) *xproto.GetPropertyReply {
	if prop == xproto.AtomNone {
		return nil
	}
	reply, err := xproto.GetProperty(c.conn, false, w, prop, typ, 0, maxPropertyLongs).Reply()
	if err != nil {
		return nil
	}
	return reply
}

// activeWindow prefers the EWMH _NET_ACTIVE_WINDOW hint and falls back to
// the top-level ancestor of the input focus.
func (c *client) activeWindow() xproto.Window {
	reply := c.property(c.root, c.atom("_NET_ACTIVE_WINDOW"), xproto.AtomWindow)
	if reply != nil {
		if w := windowFromProperty(reply.Format, reply.Value); w != xproto.WindowNone {
			return w
		}
	}

	focus, err := xproto.GetInputFocus(c.conn).Reply()
	if err != nil || focus == nil {
		return xproto.WindowNone
	}
	// 1 is PointerRoot
	if focus.Focus == xproto.WindowNone || focus.Focus == 1 || focus.Focus == c.root {
		return xproto.WindowNone
	}
	return c.topLevel(focus.Focus)
}

func (c *client) topLevel(w xproto.Window) xproto.Window {
	for i := 0; i < maxTreeDepth; i++ {
		reply, err := xproto.QueryTree(c.conn, w).Reply()
		if err != nil || reply == nil || reply.Parent == c.root || reply.Parent == xproto.WindowNone {
			return w
		}
		w = reply.Parent
	}
	return w
}

func (c *client) windowName(w xproto.Window) string {
	utf8String := c.atom("UTF8_STRING")

	if reply := c.property(w, c.atom("_NET_WM_NAME"), utf8String); reply != nil && reply.Format == 8 && len(reply.Value) > 0 {
		return decodeTitle(reply.Value, true)
	}

	reply := c.property(w, xproto.AtomWmName, xproto.GetPropertyTypeAny)
	if reply == nil || reply.Format != 8 || len(reply.Value) == 0 {
		return ""
	}
	return decodeTitle(reply.Value, reply.Type == utf8String && utf8String != xproto.AtomNone)
}

// windowFromProperty reads a single WINDOW value from a property reply
func windowFromProperty(format byte, value []byte) xproto.Window {
	if format != 32 || len(value) < 4 {
		return xproto.WindowNone
	}
	return xproto.Window(xgb.Get32(value))
}

// decodeTitle converts a text property to a Go string. UTF8_STRING data has
// invalid sequences replaced; STRING data is ISO-8859-1 per ICCCM.
func decodeTitle(value []byte, isUTF8 bool) string {
	value = bytes.TrimRight(value, "\x00")
	if isUTF8 {
		return strings.ToValidUTF8(string(value), "�")
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(value)
	if err != nil {
		return strings.ToValidUTF8(string(value), "�")
	}
	return string(decoded)
}
