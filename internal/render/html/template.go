package html

const previewTemplate = `<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{- if not .Probe}}
@page { size: {{mm .Layout.PaperWidthMm}} {{mm .Layout.PaperHeightMm}}; margin: 0; }
{{- end}}
* { box-sizing: border-box; }
body {
  margin: 0;
  font-family: Helvetica, Arial, sans-serif;
  background: {{if .Dark}}#121212{{else}}#f5f5f5{{end}};
}
.page {
  width: {{mm .Layout.PaperWidthMm}};
  height: {{mm .Layout.PaperHeightMm}};
  padding: {{mm .Layout.Margins.Top}} {{mm .Layout.Margins.Right}} {{mm .Layout.Margins.Bottom}} {{mm .Layout.Margins.Left}};
  margin: 0 auto 8mm;
  background: #ffffff;
  display: grid;
  grid-template-columns: repeat({{.Layout.Columns}}, 1fr);
  grid-template-rows: repeat({{.Layout.Rows}}, 1fr);
  overflow: hidden;
  page-break-after: always;
  break-after: page;
}
.page:last-child { page-break-after: auto; break-after: auto; margin-bottom: 0; }
.probe { display: inline-block; padding: 0; }
.cell { padding: 1.5mm; min-width: 0; min-height: 0; display: flex; }
.coupon {
  width: 100%;
  height: 100%;
  border: 2px {{if .Dashed}}dashed{{else}}solid{{end}} {{hex .Palette.Border}};
  border-radius: 8px;
  padding: 12px;
  display: flex;
  flex-direction: column;
  justify-content: space-between;
  position: relative;
  overflow: hidden;
  background: {{hex .Palette.Background}};
  color: {{hex .Palette.Text}};
}
.probe .coupon { width: auto; height: auto; min-width: 160px; }
.title { font-weight: bold; font-size: {{px .Style.TitleFontPx}}; line-height: 1.3; text-align: center; }
.subtitle { color: {{hex .Palette.MutedText}}; font-size: {{px .Style.ContentFontPx}}; text-align: center; margin-top: 4px; }
.divider { border: 0; border-top: 1px solid {{hex .Palette.Divider}}; margin: 8px 0; }
.number {
  flex-grow: 1;
  display: flex;
  align-items: center;
  justify-content: center;
  min-height: 30px;
  border: 1px solid {{hex .Palette.NumberEdge}};
  border-radius: 4px;
  background: {{hex .Palette.NumberFill}};
  color: {{hex .Palette.Number}};
  font-size: 2.5rem;
  font-weight: bold;
  position: relative;
}
.number img.logo { position: absolute; height: 80%; opacity: 0.15; }
.footer { min-height: 60px; display: flex; flex-direction: column; justify-content: space-between; align-items: center; }
.footer-text { font-size: {{px .Style.ContentFontPx}}; line-height: 1.3; text-align: center; margin-bottom: 8px; }
.code { width: {{px .Style.CodeDisplayPx}}; max-width: 100%; border: 1px solid #000; background: #fff; }
{{- if .Colored}}
.corner { position: absolute; top: -10px; right: -10px; width: 20px; height: 20px; border-radius: 50%; background: {{hex .Palette.Border}}; opacity: 0.1; }
{{- end}}
@media print {
  body { background: #ffffff; }
  .page { margin: 0; }
  .corner { display: none; }
}
</style>
</head>
<body>
{{- range .Pages}}
<section id="{{.ID}}" class="{{if $.Probe}}probe{{else}}page{{end}}">
  {{- range .Cells}}
  <div class="cell">
    <div class="coupon" data-number="{{.Number}}">
      {{- if $.Colored}}<div class="corner"></div>{{end}}
      <div>
        <div class="title">{{.Title}}</div>
        {{- if .Subtitle}}
        <div class="subtitle">{{.Subtitle}}</div>
        {{- end}}
      </div>
      <hr class="divider">
      <div class="number">
        {{- if $.Logo}}<img class="logo" src="{{$.Logo}}" alt="">{{end}}
        <span>{{.Number}}</span>
      </div>
      <hr class="divider">
      <div class="footer">
        {{- if .FooterText}}
        <div class="footer-text">{{.FooterText}}</div>
        {{- end}}
        {{- if .Code}}
        <img class="code" src="{{.Code}}" alt="QR {{.Number}}">
        {{- end}}
      </div>
    </div>
  </div>
  {{- end}}
</section>
{{- end}}
</body>
</html>
`
