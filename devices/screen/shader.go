package screen

const vertex = `
#version 410

in  vec3 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 1);
}
`

const fragment = `
#version 410

uniform sampler2D display;
uniform vec4 foreground;
uniform vec4 background;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    // Lit pixels are stored as 1.0 in the red channel.
    float lit = texture(display, fragTexCoord).r;
    outputColor = mix(background, foreground, step(0.5, lit));
}
`
