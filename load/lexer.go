package load

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// netlistLexer 网表词法
//
//	* 或 ; 开头到行尾为注释
//	.tran 等以点开头的为控制语句
//	数字可以带单位前缀和单位，如 1k、10uF、5ms
var netlistLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `[*;][^\n]*`},
	{Name: "Directive", Pattern: `\.[a-zA-Z]+`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?[a-zA-Zµμ°Ω]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// netlist 语法树
type netlist struct {
	Statements []*statement `parser:"( @@ | EOL )*"`
}

type statement struct {
	Pos       lexer.Position
	Directive *directive `parser:"  @@"`
	Card      *card      `parser:"| @@"`
}

// directive 控制语句，如 .tran 10u 5m
type directive struct {
	Name string   `parser:"@Directive"`
	Args []string `parser:"( @Number | @Ident )*"`
}

// card 元件语句：名称 引脚... 参数...
type card struct {
	Name   string   `parser:"@Ident"`
	Fields []string `parser:"( @Ident | @Number )*"`
}
