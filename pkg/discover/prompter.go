// Package discover реализует discovery-сессии: предложение новых значений
// фасетов и целиком новых фасетов по ключевым словам каталога.
//
// Интерактив абстрагирован интерфейсом Prompter: движок сессии не знает
// про консоль, тесты подставляют скриптованную реализацию. Поток промптов
// строго последовательный и не перемешивается между элементами сессии.
package discover

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Prompter — способность задать вопрос человеку.
type Prompter interface {
	// Confirm задаёт y/n вопрос. Невалидный ввод переспрашивается
	// до победного: без таймаута и без молчаливого дефолта.
	Confirm(prompt string) bool

	// ReadLine читает одну строку свободного текста (обрезанную по пробелам).
	// Второй результат false означает что ввод исчерпан: спрашивать дальше
	// некого, вызывающий обязан завершить свой цикл.
	ReadLine(prompt string) (string, bool)
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// ConsolePrompter — блокирующий промптер поверх stdin/stdout.
type ConsolePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	width int
}

// NewConsolePrompter создает промптер на стандартных потоках.
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stdout,
		width: 100,
	}
}

// Confirm печатает вопрос и ждёт y/n. Переспрашивает пока не получит
// валидный ответ; EOF трактуется как отказ.
func (p *ConsolePrompter) Confirm(prompt string) bool {
	for {
		fmt.Fprintln(p.out, questionStyle.Render(wordwrap.String(prompt, p.width)))

		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			// stdin закрыт — дальше спрашивать некого
			return false
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true
		case "n":
			return false
		}

		fmt.Fprintln(p.out, hintStyle.Render("Invalid response. Please enter 'y' or 'n'."))
	}
}

// ReadLine печатает приглашение и возвращает введённую строку.
// EOF без данных даёт ("", false), как отказ у Confirm.
func (p *ConsolePrompter) ReadLine(prompt string) (string, bool) {
	fmt.Fprintln(p.out, questionStyle.Render(wordwrap.String(prompt, p.width)))

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Say печатает информационное сообщение сессии (не вопрос).
func (p *ConsolePrompter) Say(msg string) {
	fmt.Fprintln(p.out, wordwrap.String(msg, p.width))
}

// ScriptedPrompter — заранее заданная последовательность ответов.
//
// Используется в тестах и позволяет реплеить сессию без живого терминала.
// Ответы снимаются по очереди; исчерпание скрипта на Confirm даёт отказ.
type ScriptedPrompter struct {
	Answers []string
	pos     int
	Asked   []string // лог заданных вопросов, в порядке появления
}

func (p *ScriptedPrompter) next() (string, bool) {
	if p.pos >= len(p.Answers) {
		return "", false
	}
	a := p.Answers[p.pos]
	p.pos++
	return a, true
}

// Confirm снимает следующий ответ скрипта; не-y/n ответы пропускаются,
// как переспрос у живого пользователя.
func (p *ScriptedPrompter) Confirm(prompt string) bool {
	p.Asked = append(p.Asked, prompt)
	for {
		a, ok := p.next()
		if !ok {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(a)) {
		case "y":
			return true
		case "n":
			return false
		}
	}
}

// ReadLine снимает следующий ответ скрипта; исчерпание скрипта — EOF.
func (p *ScriptedPrompter) ReadLine(prompt string) (string, bool) {
	p.Asked = append(p.Asked, prompt)
	a, ok := p.next()
	return strings.TrimSpace(a), ok
}
