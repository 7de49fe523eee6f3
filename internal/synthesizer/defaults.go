package synthesizer

import (
	"strings"

	"sparrow-backend/internal/models"
)

// Placeholder is the body a file gets when it is announced but not yet written.
func Placeholder(name string) string {
	return "// " + name + " - Generated by Sparrow AI\n// Content will be added here..."
}

// IsPlaceholder reports whether f still holds nothing but its skeleton body.
func IsPlaceholder(f models.ProjectFile) bool {
	return strings.TrimSpace(f.Content) == "" || f.Content == Placeholder(f.Name)
}

// DefaultContent is the built-in implementation of a canonical file. It is
// empty for any other name.
func DefaultContent(name string) string {
	switch name {
	case models.IndexHTML:
		return defaultHTML
	case models.StylesCSS:
		return defaultCSS
	case models.ScriptJS:
		return defaultJS
	}
	return ""
}

const defaultHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sparrow AI Generated App</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <div id="app">
        <header class="hero">
            <h1>Welcome to Your Sparrow AI App</h1>
            <p>This is a complete web application generated by Sparrow AI</p>
        </header>
        <main class="content">
            <section class="features">
                <h2>Features</h2>
                <div class="feature-grid">
                    <div class="feature-card">
                        <h3>Responsive Design</h3>
                        <p>Works perfectly on all devices</p>
                    </div>
                    <div class="feature-card">
                        <h3>Modern Styling</h3>
                        <p>Beautiful gradients and animations</p>
                    </div>
                    <div class="feature-card">
                        <h3>Interactive Elements</h3>
                        <p>Engaging user interactions</p>
                    </div>
                </div>
                <button id="demo-btn" class="cta-btn">Try Interactive Demo!</button>
            </section>
        </main>
        <footer class="footer">
            <p>Sparrow AI Generated App</p>
        </footer>
    </div>
    <script src="script.js"></script>
</body>
</html>`

const defaultCSS = `/* Sparrow AI Generated Styles */
* {
    margin: 0;
    padding: 0;
    box-sizing: border-box;
}

body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
    line-height: 1.6;
    color: #333;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    min-height: 100vh;
}

#app {
    max-width: 1200px;
    margin: 20px auto;
    background: rgba(255, 255, 255, 0.95);
    border-radius: 20px;
    box-shadow: 0 25px 50px rgba(0, 0, 0, 0.15);
    overflow: hidden;
}

.hero {
    background: linear-gradient(135deg, #2c3e50 0%, #34495e 100%);
    color: white;
    padding: 60px 40px;
    text-align: center;
}

.content {
    padding: 60px 40px;
}

.feature-grid {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));
    gap: 30px;
    margin-bottom: 50px;
}

.feature-card {
    background: linear-gradient(135deg, #f8f9fa 0%, #e9ecef 100%);
    padding: 30px;
    border-radius: 15px;
    text-align: center;
    transition: all 0.3s ease;
}

.feature-card:hover {
    transform: translateY(-10px);
    box-shadow: 0 20px 40px rgba(0, 0, 0, 0.1);
}

.cta-btn {
    display: block;
    margin: 0 auto;
    padding: 15px 40px;
    border: none;
    border-radius: 50px;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    color: white;
    font-size: 1.1rem;
    cursor: pointer;
}

.footer {
    text-align: center;
    padding: 30px;
    color: #666;
}`

const defaultJS = `// Sparrow AI Generated JavaScript
console.log('Sparrow AI app loaded successfully!');

document.addEventListener('DOMContentLoaded', function() {
    console.log('DOM ready!');

    const button = document.getElementById('demo-btn');
    if (button) {
        let clicks = 0;
        button.addEventListener('click', function() {
            clicks++;
            button.textContent = 'Clicked ' + clicks + (clicks === 1 ? ' time' : ' times');
        });
    }
});`

const starterHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sparrow AI Generated App</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <div id="app">
        <h1>Welcome to Sparrow AI</h1>
        <p>Start chatting to generate your web application...</p>
    </div>
    <script src="script.js"></script>
</body>
</html>`

const starterCSS = `/* Sparrow AI Generated Styles */
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    margin: 0;
    padding: 20px;
    background: #f5f5f5;
    color: #333;
}

#app {
    max-width: 1200px;
    margin: 0 auto;
    background: white;
    padding: 20px;
    border-radius: 8px;
    box-shadow: 0 2px 10px rgba(0,0,0,0.1);
}

h1 {
    color: #2c3e50;
    margin-bottom: 20px;
}`

const starterJS = `// Sparrow AI Generated JavaScript
console.log('Sparrow AI app loaded successfully!');

// Your generated JavaScript code will be added here
document.addEventListener('DOMContentLoaded', function() {
    console.log('DOM loaded, app ready!');
});`
