// Package term определяет возможности терминала вывода и задает вопросы пользователю.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/xerrors"
)

// DefaultWidth используется, когда ширину терминала определить не удалось.
const DefaultWidth = 100

// Terminal описывает поток вывода и, для вопросов, поток ввода.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	outfd int
	isTTY bool
}

// NewTerminal создает Terminal для стандартных потоков процесса.
func NewTerminal() *Terminal {
	return New(os.Stdin, os.Stdout)
}

// New создает Terminal для произвольных потоков. Если out - не *os.File,
// терминал считается неинтерактивным.
func New(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		outfd: -1,
	}
	if f, ok := out.(*os.File); ok {
		t.outfd = int(f.Fd())
		t.isTTY = term.IsTerminal(t.outfd)
	}
	return t
}

// IsTerminal сообщает, подключен ли вывод к терминалу.
func (t *Terminal) IsTerminal() bool {
	return t.isTTY
}

// Width возвращает ширину терминала в колонках или DefaultWidth.
func (t *Terminal) Width() int {
	if !t.isTTY {
		return DefaultWidth
	}
	w, _, err := term.GetSize(t.outfd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Confirm задает вопрос "да/нет". Пустой ответ означает "нет".
func (t *Terminal) Confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	answer, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, xerrors.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "д", "да":
		return true, nil
	default:
		return false, nil
	}
}
