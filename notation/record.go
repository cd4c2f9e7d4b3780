package notation

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/owarelab/oware/oware"
)

type Tag struct {
	Name  string
	Value string
}

type Op interface {
	op()

	Source() string
}

type opCommon struct {
	src string
}

func (o opCommon) Source() string {
	return o.src
}

func (o opCommon) op() {}

type MoveNumber struct {
	opCommon
	Number int
}

type Move struct {
	opCommon
	Pit int
}

type Comment struct {
	opCommon
	Comment string
}

type GameOver struct {
	opCommon
	Winner oware.Player
}

// Record is a game record: a block of tags followed by numbered moves
// and an optional result.
type Record struct {
	Tags []Tag
	Ops  []Op
}

// NewRecord builds a record for a game that started at start and
// played moves in order. A non-nil winner adds a result token.
func NewRecord(start *oware.Board, moves []int, winner *oware.Player) *Record {
	r := &Record{}
	if start != nil && !start.Equal(oware.New()) {
		r.Tags = append(r.Tags, Tag{Name: "Position", Value: FormatPosition(start)})
	}
	first := oware.Player1
	if start != nil {
		first = start.ToMove()
	}
	n := 1
	for i, m := range moves {
		if i == 0 || (i+int(first))%2 == 0 {
			r.Ops = append(r.Ops, &MoveNumber{Number: n})
		}
		r.Ops = append(r.Ops, &Move{Pit: m})
		if (i+int(first))%2 == 1 {
			n++
		}
	}
	if winner != nil {
		r.Ops = append(r.Ops, &GameOver{Winner: *winner})
	}
	return r
}

func ParseRecord(r io.Reader) (*Record, error) {
	buf := bufio.NewReader(r)
	var rec Record
	if err := readTags(buf, &rec); err != nil && err != io.EOF {
		return nil, err
	}
	if err := readMoves(buf, &rec); err != nil && err != io.EOF {
		return nil, err
	}
	return &rec, nil
}

func (r *Record) FindTag(name string) string {
	for _, t := range r.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

func (r *Record) SetTag(name, value string) {
	for i := range r.Tags {
		if r.Tags[i].Name == name {
			r.Tags[i].Value = value
			return
		}
	}
	r.Tags = append(r.Tags, Tag{Name: name, Value: value})
}

func (r *Record) InitialPosition() (*oware.Board, error) {
	pos := r.FindTag("Position")
	if pos == "" {
		return oware.New(), nil
	}
	b, err := ParsePosition(pos)
	if err != nil {
		return nil, fmt.Errorf("bad Position: %w", err)
	}
	return b, nil
}

func (r *Record) Moves() []int {
	var out []int
	for _, op := range r.Ops {
		if m, ok := op.(*Move); ok {
			out = append(out, m.Pit)
		}
	}
	return out
}

// Result returns the recorded winner, if the record has a result.
func (r *Record) Result() (oware.Player, bool) {
	for _, op := range r.Ops {
		if g, ok := op.(*GameOver); ok {
			return g.Winner, true
		}
	}
	return oware.Draw, false
}

// Replay plays every move in the record from its initial position and
// returns the final board.
func (r *Record) Replay() (*oware.Board, error) {
	b, err := r.InitialPosition()
	if err != nil {
		return nil, err
	}
	for i, m := range r.Moves() {
		if oware.GameOver(b) {
			return nil, fmt.Errorf("move %d (%s): game already over", i+1, FormatMove(m))
		}
		if _, err := oware.Execute(b, m, false); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, FormatMove(m), err)
		}
	}
	oware.CheckEnd(b)
	return b, nil
}

func readTags(r *bufio.Reader, rec *Record) error {
	for {
		if e := skipWS(r); e != nil {
			return e
		}
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if c != '[' {
			return r.UnreadByte()
		}
		line, e := r.ReadString(']')
		if e != nil {
			return e
		}
		line = line[:len(line)-1]
		bits := strings.SplitN(line, " ", 2)
		if len(bits) != 2 {
			return errors.New("bad tag")
		}
		rec.Tags = append(rec.Tags, Tag{
			Name:  bits[0],
			Value: strings.Trim(bits[1], "\""),
		})
	}
}

var ErrUnterminatedComment = errors.New("unterminated comment")

func readMoves(r *bufio.Reader, rec *Record) error {
	s := bufio.NewScanner(r)
	s.Split(splitMoves)
	for s.Scan() {
		tok := s.Text()
		common := opCommon{tok}
		switch {
		case tok[0] == '{':
			if len(tok) < 2 || tok[len(tok)-1] != '}' {
				return ErrUnterminatedComment
			}
			rec.Ops = append(rec.Ops, &Comment{common, tok[1 : len(tok)-1]})
		case tok == "..":
		case tok[len(tok)-1] == '.':
			n, e := strconv.Atoi(tok[:len(tok)-1])
			if e != nil {
				return e
			}
			rec.Ops = append(rec.Ops, &MoveNumber{common, n})
		case tok == "1-0":
			rec.Ops = append(rec.Ops, &GameOver{common, oware.Player1})
		case tok == "0-1":
			rec.Ops = append(rec.Ops, &GameOver{common, oware.Player2})
		case tok == "1/2-1/2":
			rec.Ops = append(rec.Ops, &GameOver{common, oware.Draw})
		default:
			pit, e := ParseMove(tok)
			if e != nil {
				return e
			}
			rec.Ops = append(rec.Ops, &Move{common, pit})
		}
	}
	return s.Err()
}

func splitMoves(buf []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(buf) && unicode.IsSpace(rune(buf[start])) {
		start++
	}
	if start == len(buf) {
		return start, nil, nil
	}
	if buf[start] == '{' {
		for i := start; i < len(buf); i++ {
			if buf[i] == '}' {
				return i + 1, buf[start : i+1], nil
			}
		}
		if atEOF {
			return 0, nil, ErrUnterminatedComment
		}
		return start, nil, nil
	}
	for i := start; i < len(buf); i++ {
		if unicode.IsSpace(rune(buf[i])) {
			return i + 1, buf[start:i], nil
		}
	}
	if atEOF {
		return len(buf), buf[start:], nil
	}
	return start, nil, nil
}

func skipWS(r *bufio.Reader) error {
	for {
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if !unicode.IsSpace(rune(c)) {
			return r.UnreadByte()
		}
	}
}

func formatResult(w oware.Player) string {
	switch w {
	case oware.Player1:
		return "1-0"
	case oware.Player2:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

func (r *Record) Render() string {
	var out bytes.Buffer
	for _, tag := range r.Tags {
		fmt.Fprintf(&out, "[%s \"%s\"]\n",
			tag.Name, strings.Replace(tag.Value, "\"", "", -1),
		)
	}
	out.WriteString("\n")

	for _, op := range r.Ops {
		switch o := op.(type) {
		case *MoveNumber:
			fmt.Fprintf(&out, "\n%d.", o.Number)
		case *Move:
			fmt.Fprintf(&out, " %s", FormatMove(o.Pit))
		case *Comment:
			fmt.Fprintf(&out, " {%s}", o.Comment)
		case *GameOver:
			fmt.Fprintf(&out, "\n%s\n", formatResult(o.Winner))
		}
	}
	return out.String()
}
