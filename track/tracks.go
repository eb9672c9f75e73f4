package track

import "sort"

// Built-in tracks, in track file format.
var (
	LTrack []string = []string{
		"11,20",
		"####################",
		"#..................F",
		"#..................F",
		"#..................F",
		"#..........#########",
		"#..........#########",
		"#..........#########",
		"#..........#########",
		"#..........#########",
		"#SSSSSSSSSS#########",
		"####################",
	}

	OTrack []string = []string{
		"10,14",
		"##############",
		"#............#",
		"#............#",
		"#..########..#",
		"#..########..#",
		"#..########..#",
		"#..########..#",
		"#..#######...#",
		"#FF#######SS.#",
		"##############",
	}

	RTrack []string = []string{
		"14,14",
		"##############",
		"#............#",
		"#............#",
		"#....#####...#",
		"#...#######..#",
		"#...#######..#",
		"#...#####....#",
		"#...........##",
		"#.........####",
		"#....#.....###",
		"#....##.....##",
		"#....###....##",
		"#SSSS####FFFF#",
		"##############",
	}

	// DebugTrack is a small corner for development.
	DebugTrack []string = []string{
		"8,6",
		"######",
		"#....F",
		"#....F",
		"#..###",
		"#..###",
		"#..###",
		"#SS###",
		"######",
	}
)

var builtins = map[string][]string{
	"L":     LTrack,
	"O":     OTrack,
	"R":     RTrack,
	"debug": DebugTrack,
}

// Builtin returns a built-in track by name.
func Builtin(name string) (*Track, error) {
	lines, ok := builtins[name]
	if !ok {
		return nil, ErrUnknownTrack
	}
	return FromLines(lines)
}

// BuiltinNames lists the built-in tracks.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
