package track

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"racetrack/geometry"
)

// Track file symbols.
const (
	WALL   = '#'
	TRACK  = '.'
	START  = 'S'
	FINISH = 'F'

	symbols = string(WALL) + string(TRACK) + string(START) + string(FINISH)
)

var (
	ErrMalformedHeader = errors.New("track header must be \"X_MAX,Y_MAX\"")
	ErrUnknownSymbol   = errors.New("unrecognized track symbol")
	ErrDimensions      = errors.New("track grid does not match its dimensions")
	ErrNoStart         = errors.New("track has no start cell")
	ErrNoFinish        = errors.New("track has no finish cell")
	ErrUnknownTrack    = errors.New("unknown built-in track")
)

// FromFile reads a track file.
func FromFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a track: a "X_MAX,Y_MAX" header line followed by X_MAX rows of Y_MAX symbols.
// Row i of the grid is x = i and the character offset is y.
func Parse(r io.Reader) (*Track, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return FromLines(lines)
}

// FromLines is Parse over lines already in memory; the first line is the header.
func FromLines(lines []string) (*Track, error) {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, ErrMalformedHeader
	}

	width, height, err := parseHeader(lines[0])
	if err != nil {
		return nil, err
	}
	rows := lines[1:]
	if len(rows) != width {
		return nil, fmt.Errorf("%w: header has %d rows, found %d", ErrDimensions, width, len(rows))
	}

	passable := make([][]bool, width)
	var starts, finishes []geometry.Point
	for x, row := range rows {
		cells := []rune(strings.TrimSpace(row))
		for y, symbol := range cells {
			if !strings.ContainsRune(symbols, symbol) {
				return nil, fmt.Errorf("%w %q at row %d column %d", ErrUnknownSymbol, symbol, x, y)
			}
		}
		if len(cells) != height {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensions, x, len(cells), height)
		}

		passable[x] = make([]bool, height)
		for y, symbol := range cells {
			passable[x][y] = symbol != WALL
			switch symbol {
			case START:
				starts = append(starts, geometry.Point{X: x, Y: y})
			case FINISH:
				finishes = append(finishes, geometry.Point{X: x, Y: y})
			}
		}
	}

	return New(width, height, passable, starts, finishes)
}

func parseHeader(header string) (width, height int, err error) {
	fields := strings.Split(strings.TrimSpace(header), ",")
	if len(fields) != 2 {
		return 0, 0, ErrMalformedHeader
	}
	if width, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil || width <= 0 {
		return 0, 0, ErrMalformedHeader
	}
	if height, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil || height <= 0 {
		return 0, 0, ErrMalformedHeader
	}
	return width, height, nil
}
