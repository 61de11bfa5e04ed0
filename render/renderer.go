package render

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
)

// Renderer は static/views 配下のテンプレート一式を保持します。
// テンプレート名はファイル名 (例: "index.html") です。
type Renderer struct {
	tmpl *template.Template
}

func Load(staticDir string) (*Renderer, error) {
	staticFS := os.DirFS(staticDir)
	viewsFS, err := fs.Sub(staticFS, "views")
	if err != nil {
		return nil, fmt.Errorf("views directory not found under %s: %w", staticDir, err)
	}

	tmpl, err := template.ParseFS(viewsFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse view templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// HTML はテンプレートを描画します。描画エラーはログに残すだけにします
// (既にヘッダーを書き出している可能性があるため)。
func (rnd *Renderer) HTML(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rnd.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error executing template %s: %v", name, err)
	}
}
