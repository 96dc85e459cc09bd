package theme

var builtins = map[string]Theme{
	"default": {
		Name: "default",
		Colors: Colors{
			Background:      "transparent",
			Foreground:      "#C9D1D9",
			Selected:        "#264F78",
			Directory:       "#79C0FF",
			Executable:      "#7EE787",
			Hidden:          "#6E7681",
			Symlink:         "#D2A8FF",
			ParentDir:       "#58A6FF",
			StatusBarBg:     "#21262D",
			StatusBarFg:     "#C9D1D9",
			StatusBarActive: "#58A6FF",
			UISecondary:     "#8B949E",
			UIBorder:        "#30363D",
			UIError:         "#FF7B72",
			UIWarning:       "#E3B341",
			UIAccent:        "#D2A8FF",
			UIInfo:          "#79C0FF",
			UISuccess:       "#7EE787",
		},
	},
	"catppuccin": {
		Name: "catppuccin",
		Colors: Colors{
			Background:      "#1E1E2E",
			Foreground:      "#CDD6F4",
			Selected:        "#45475A",
			Directory:       "#89B4FA",
			Executable:      "#A6E3A1",
			Hidden:          "#6C7086",
			Symlink:         "#CBA6F7",
			ParentDir:       "#74C7EC",
			StatusBarBg:     "#181825",
			StatusBarFg:     "#CDD6F4",
			StatusBarActive: "#89B4FA",
			UISecondary:     "#A6ADC8",
			UIBorder:        "#313244",
			UIError:         "#F38BA8",
			UIWarning:       "#F9E2AF",
			UIAccent:        "#F5C2E7",
			UIInfo:          "#89DCEB",
			UISuccess:       "#A6E3A1",
		},
	},
	"nord": {
		Name: "nord",
		Colors: Colors{
			Background:      "#2E3440",
			Foreground:      "#D8DEE9",
			Selected:        "#434C5E",
			Directory:       "#81A1C1",
			Executable:      "#A3BE8C",
			Hidden:          "#4C566A",
			Symlink:         "#B48EAD",
			ParentDir:       "#88C0D0",
			StatusBarBg:     "#3B4252",
			StatusBarFg:     "#E5E9F0",
			StatusBarActive: "#88C0D0",
			UISecondary:     "#616E88",
			UIBorder:        "#4C566A",
			UIError:         "#BF616A",
			UIWarning:       "#EBCB8B",
			UIAccent:        "#B48EAD",
			UIInfo:          "#88C0D0",
			UISuccess:       "#A3BE8C",
		},
	},
	"gruvbox": {
		Name: "gruvbox",
		Colors: Colors{
			Background:      "#282828",
			Foreground:      "#EBDBB2",
			Selected:        "#504945",
			Directory:       "#83A598",
			Executable:      "#B8BB26",
			Hidden:          "#928374",
			Symlink:         "#D3869B",
			ParentDir:       "#8EC07C",
			StatusBarBg:     "#3C3836",
			StatusBarFg:     "#EBDBB2",
			StatusBarActive: "#FABD2F",
			UISecondary:     "#A89984",
			UIBorder:        "#665C54",
			UIError:         "#FB4934",
			UIWarning:       "#FABD2F",
			UIAccent:        "#D3869B",
			UIInfo:          "#83A598",
			UISuccess:       "#B8BB26",
		},
	},
	"dracula": {
		Name: "dracula",
		Colors: Colors{
			Background:      "#282A36",
			Foreground:      "#F8F8F2",
			Selected:        "#44475A",
			Directory:       "#BD93F9",
			Executable:      "#50FA7B",
			Hidden:          "#6272A4",
			Symlink:         "#FF79C6",
			ParentDir:       "#8BE9FD",
			StatusBarBg:     "#21222C",
			StatusBarFg:     "#F8F8F2",
			StatusBarActive: "#BD93F9",
			UISecondary:     "#6272A4",
			UIBorder:        "#44475A",
			UIError:         "#FF5555",
			UIWarning:       "#F1FA8C",
			UIAccent:        "#FF79C6",
			UIInfo:          "#8BE9FD",
			UISuccess:       "#50FA7B",
		},
	},
}
