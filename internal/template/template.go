package template

import (
	"html/template"
	"io"

	"github.com/shopspring/decimal"
)

var Portfolio *template.Template
var Buy *template.Template
var Sell *template.Template
var History *template.Template
var Login *template.Template
var Register *template.Template
var Quote *template.Template
var Quoted *template.Template
var Apology *template.Template

var funcMap = template.FuncMap{
	"usd": func(value decimal.Decimal) string {
		return "$" + value.StringFixed(2)
	},
}

func parse(filenames ...string) *template.Template {
	files := make([]string, 0, len(filenames)+1)
	files = append(files, "template/base.tmpl")

	for _, filename := range filenames {
		files = append(files, "template/"+filename)
	}

	return template.Must(
		template.New("base.tmpl").Funcs(funcMap).ParseFiles(files...),
	)
}

func Init() {
	Portfolio = parse("portfolio.tmpl")
	Buy = parse("buy.tmpl")
	Sell = parse("sell.tmpl")
	History = parse("history.tmpl")
	Login = parse("login.tmpl")
	Register = parse("register.tmpl")
	Quote = parse("quote.tmpl")
	Quoted = parse("quoted.tmpl")
	Apology = parse("apology.tmpl")
}

func Render(tmpl *template.Template, writer io.Writer, data interface{}) {
	tmpl.ExecuteTemplate(writer, "base", data)
}
