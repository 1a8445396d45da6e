package rasterize

import (
	"html"
)

const docxCSS = `body{font-family:Calibri,Carlito,"Liberation Sans",Arial,sans-serif;font-size:15px;line-height:1.4;color:#111;margin:0;padding:48px 64px;background:#fff}
h1{font-size:28px;margin:0 0 8px}h2{font-size:22px;margin:16px 0 6px}h3,h4,h5,h6{font-size:18px;margin:12px 0 4px}
p{margin:0 0 6px}p.blank{margin:0}ul{margin:0 0 8px 24px;padding:0}li{margin:0 0 3px}
table{border-collapse:collapse;width:100%;margin:8px 0}td{border:1px solid #ccc;padding:4px 6px;vertical-align:top}`

const textCSS = `body{margin:0;padding:48px 56px;background:#fff;color:#111}
pre{font-family:"DejaVu Sans Mono","Liberation Mono",Menlo,Consolas,monospace;font-size:14px;line-height:1.45;white-space:pre-wrap;word-wrap:break-word;margin:0}`

func documentShell(css, body string) string {
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>" + css + "</style></head><body>" + body + "</body></html>"
}

// TextToHTML renders plain text as a preformatted monospace page.
func TextToHTML(text string) string {
	return documentShell(textCSS, "<pre>"+html.EscapeString(text)+"</pre>")
}
