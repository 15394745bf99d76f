// Package compiler exposes the three-function public API the teacher
// established - New, SetDebug, Compile - generalized from "tokenize,
// build an opcode list, emit one AMD64 snippet per opcode" to "parse,
// lower, render assembly text", with the parser and codegen packages
// doing the actual work.
package compiler

import (
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	"github.com/quill-lang/quillc/codegen"
	"github.com/quill-lang/quillc/parser"
)

// Compiler holds our object-state.
type Compiler struct {

	// debug holds a flag to decide if we trace our compilation stages.
	debug bool

	// source holds the Quill program we're compiling.
	source string

	// log traces parse/lower stages when debug is set. It's built
	// lazily in Compile so SetDebug(true) after New still takes effect.
	log *logrus.Logger
}

// New creates a new compiler, given the source program.
func New(source string) *Compiler {
	return &Compiler{source: source}
}

// SetDebug changes the debug-flag for our output.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// Compile converts the source program into Quill assembly text, ready
// for an out-of-scope packager to splice into a calculator's
// register/expression substrate (spec.md's explicit Non-goal).
func (c *Compiler) Compile() (string, error) {
	c.setupLogger()

	c.log.Debug("parsing source")
	tree, err := parser.Parse(c.source)
	if err != nil {
		c.log.WithError(err).Debug("parse failed")
		return "", err
	}

	c.log.Debug("lowering to assembly")
	prog, err := codegen.Generate(tree)
	if err != nil {
		c.log.WithError(err).Debug("codegen failed")
		return "", err
	}

	out := prog.String()
	c.log.WithField("lines", prog.Len()).Debug("compilation complete")
	return out, nil
}

// setupLogger builds a logger that writes Debug lines only when debug
// is set - otherwise its level is Warn and every Debug call is a cheap
// level-check that writes nothing, matching the teacher's "debug stuff in the output" flag,
// generalized to structured trace lines instead of inline assembly
// comments.
func (c *Compiler) setupLogger() {
	c.log = logrus.New()
	c.log.SetFormatter(&easy.Formatter{
		TimestampFormat: "15:04:05",
		LogFormat:       "[%lvl%] %msg%\n",
	})
	if c.debug {
		c.log.SetLevel(logrus.DebugLevel)
	} else {
		c.log.SetLevel(logrus.WarnLevel)
	}
}
