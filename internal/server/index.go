package server

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>molpic</title>
  <style>
    body { font-family: Helvetica, Arial, sans-serif; max-width: 40rem; margin: 3rem auto; padding: 0 1rem; }
    label { display: block; margin-top: 0.8rem; }
    input[type=text], select { width: 100%; padding: 0.4rem; }
    button { margin-top: 1rem; padding: 0.5rem 1.2rem; }
    #result { margin-top: 1.5rem; }
    #result img { max-width: 100%; border: 1px solid #ddd; }
    #error { color: #b00; white-space: pre-wrap; }
  </style>
</head>
<body>
<h1>molpic</h1>
<p>Render a compound name or SMILES string as a 2D structure.</p>
<form id="form">
  <label>Compound name or SMILES
    <input type="text" id="query" placeholder="aspirin or CC(=O)Oc1ccccc1C(=O)O" required />
  </label>
  <label>Label (optional)
    <input type="text" id="label" />
  </label>
  <label>Format
    <select id="format">
      <option value="svg">SVG</option>
      <option value="png">PNG</option>
    </select>
  </label>
  <label><input type="checkbox" id="no_h" /> Hide explicit hydrogens</label>
  <button type="submit">Render</button>
</form>
<div id="result"></div>
<p id="error"></p>
<script>
document.getElementById('form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const errorEl = document.getElementById('error');
  const resultEl = document.getElementById('result');
  errorEl.textContent = '';
  resultEl.innerHTML = '';
  const body = {
    query: document.getElementById('query').value,
    label: document.getElementById('label').value,
    format: document.getElementById('format').value,
    no_h: document.getElementById('no_h').checked,
  };
  const resp = await fetch('/api/render', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body),
  });
  if (!resp.ok) {
    const err = await resp.json();
    errorEl.textContent = err.error.code + ': ' + err.error.message;
    return;
  }
  const blob = await resp.blob();
  const img = document.createElement('img');
  img.src = URL.createObjectURL(blob);
  resultEl.appendChild(img);
});
</script>
</body>
</html>
`
