// Package dub parses console commands: a command name followed by
// identifiers, numbers, quoted strings and lists or ranges of MIDI notes.
//
//	on 440.0
//	on 60,64,67
//	off 60:72
//	press ";"
//	set bellows smoothing 0.1
package dub

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (NoteList) isNode()   {}
func (NoteRange) isNode()  {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string

// NoteList is a comma separated list of MIDI notes, e.g. 60,64,67.
type NoteList []int

// NoteRange is an inclusive range of MIDI notes, e.g. 60:72.
type NoteRange struct {
	Start, End int
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) peek() token {
	t := p.next()
	p.pos--
	return t
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		var arg Node
		switch token.typ {
		case typeIdentifier:
			arg = Identifier(token.text)
		case typeString:
			arg = String(token.text[1 : len(token.text)-1])
		case typeFloat:
			f, err := strconv.ParseFloat(token.text, 64)
			if err != nil {
				return cmd, err
			}
			arg = Float(f)
		case typeInt:
			n, err := p.notes(token)
			if err != nil {
				return cmd, err
			}
			arg = n
		default:
			return cmd, unexpected(token)
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

// notes parses an int, a note list or a note range starting at start.
func (p *parser) notes(start token) (Node, error) {
	first, err := strconv.Atoi(start.text)
	if err != nil {
		return nil, err
	}
	switch p.peek().typ {
	case typeColon:
		p.next()
		t := p.next()
		if t.typ != typeInt {
			return nil, unexpected(t)
		}
		end, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, err
		}
		return NoteRange{Start: first, End: end}, nil
	case typeComma:
		list := NoteList{first}
		for p.peek().typ == typeComma {
			p.next()
			t := p.next()
			if t.typ != typeInt {
				return nil, unexpected(t)
			}
			n, err := strconv.Atoi(t.text)
			if err != nil {
				return nil, err
			}
			list = append(list, n)
		}
		return list, nil
	default:
		return Int(first), nil
	}
}

func unexpected(t token) error {
	if t.typ == typeEOF {
		return fmt.Errorf("unexpected end of input")
	}
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
